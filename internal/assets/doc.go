// Package assets provides the typefaces and bitmaps drawn on certificates.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - verdict glyphs compiled into the binary
//	    ├── FilesystemLoader  - school typefaces and logo from a directory
//	    └── AssetResolver     - custom first, embedded as fallback
//
// Only the pass/fail glyphs are embedded. Typefaces and the school logo are
// institution specific and come from a configured directory; when absent the
// renderer falls back to its core typeface and a blank logo cell.
//
// # Directory Structure
//
//	{basePath}/
//	├── fonts/
//	│   ├── regular.ttf
//	│   └── bold.ttf
//	└── images/
//	    ├── logo.png
//	    ├── pass.png   # optional override
//	    └── fail.png   # optional override
//
// # Security
//
// Asset names are validated to prevent path traversal.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
