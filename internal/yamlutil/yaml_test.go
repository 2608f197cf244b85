package yamlutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-pp5/internal/yamlutil"
)

type testConfig struct {
	School  string            `yaml:"school"`
	Workers int               `yaml:"workers"`
	Enabled bool              `yaml:"enabled"`
	Areas   map[string]string `yaml:"areas,omitempty"`
	Note    string            `yaml:"note,omitempty"`
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		want    *testConfig
		wantErr error
	}{
		{
			name: "valid YAML",
			data: []byte("school: โรงเรียนบ้านสวน\nworkers: 4\nenabled: true"),
			dest: &testConfig{},
			want: &testConfig{School: "โรงเรียนบ้านสวน", Workers: 4, Enabled: true},
		},
		{
			name: "unknown fields ignored",
			data: []byte("school: x\ncolor: blue"),
			dest: &testConfig{},
			want: &testConfig{School: "x"},
		},
		{name: "nil data", data: nil, dest: &testConfig{}, wantErr: yamlutil.ErrNilData},
		{name: "empty data", data: []byte{}, dest: &testConfig{}, wantErr: yamlutil.ErrNilData},
		{name: "nil destination", data: []byte("school: x"), dest: nil, wantErr: yamlutil.ErrNilDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, tt.dest); diff != "" {
				t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnmarshal_SyntaxError(t *testing.T) {
	t.Parallel()

	err := yamlutil.Unmarshal([]byte("school: [unclosed"), &testConfig{})
	if err == nil || !strings.HasPrefix(err.Error(), "yamlutil:") {
		t.Errorf("Unmarshal() error = %v, want yamlutil-prefixed error", err)
	}
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	var cfg testConfig
	if err := yamlutil.UnmarshalStrict([]byte("school: x\nworkers: 2"), &cfg); err != nil {
		t.Fatalf("UnmarshalStrict() error = %v", err)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}

	err := yamlutil.UnmarshalStrict([]byte("school: x\ncolour: blue"), &testConfig{})
	if err == nil || !strings.Contains(err.Error(), "colour") {
		t.Errorf("UnmarshalStrict(unknown field) error = %v, want mention of colour", err)
	}
}

func TestInputTooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("note: " + strings.Repeat("a", yamlutil.MaxInputSize))
	if err := yamlutil.Unmarshal(data, &testConfig{}); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("Unmarshal() error = %v, want ErrInputTooLarge", err)
	}
	if err := yamlutil.UnmarshalStrict(data, &testConfig{}); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("UnmarshalStrict() error = %v, want ErrInputTooLarge", err)
	}
}

func TestReadFileStrict(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "pp5.yaml")
	if err := os.WriteFile(path, []byte("school: โรงเรียนบ้านสวน\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg testConfig
	if err := yamlutil.ReadFileStrict(path, &cfg); err != nil {
		t.Fatalf("ReadFileStrict() error = %v", err)
	}
	if cfg.School != "โรงเรียนบ้านสวน" {
		t.Errorf("School = %q", cfg.School)
	}

	if err := yamlutil.ReadFileStrict(filepath.Join(dir, "missing.yaml"), &cfg); !os.IsNotExist(err) {
		t.Errorf("ReadFileStrict(missing) error = %v, want not-exist", err)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	in := testConfig{
		School:  "โรงเรียนบ้านสวน",
		Workers: 3,
		Areas:   map[string]string{"ค": "คณิตศาสตร์"},
		Note:    "บรรทัดแรก\nบรรทัดที่สอง",
	}
	data, err := yamlutil.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var out testConfig
	if err := yamlutil.UnmarshalStrict(data, &out); err != nil {
		t.Fatalf("UnmarshalStrict() error = %v\n%s", err, data)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
