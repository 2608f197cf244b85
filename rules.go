package pp5

// Rule is one named line of a phase table.
type Rule struct {
	Label string
	Check func(rec *SubmissionRecord) CheckResult
}

// Sheet field names read by the rules.
const (
	fieldGradeLevel   = "home_grade_level"
	fieldRoom         = "home_room"
	fieldSemester     = "home_semester"
	fieldAcademicYear = "home_academic_year"
	fieldSubject      = "home_subject"
	fieldSubjectCode  = "home_subject_code"
	fieldLearningArea = "home_learning_area"
	fieldCredit       = "home_credit"
	fieldStudyTime    = "home_study_time"
	fieldTeacher      = "home_teacher"
	fieldAdvisor      = "home_advisor"
	fieldTotalHours   = "03_total_hour"
	fieldFullScore    = "02_midterm"
)

// Rules returns the ordered rules of a phase. Order is row order.
func (rb *Rulebook) Rules(p Phase) []Rule {
	switch p {
	case PreMidterm:
		return []Rule{
			{"ข้อมูลระดับชั้น (ปก)", requirePresent(fieldGradeLevel)},
			{"ข้อมูลห้องเรียน (ปก)", requirePresent(fieldRoom)},
			{"ภาคเรียน (ปก)", matchForm("ภาคเรียน", (*SubmissionRecord).FormSemester, fieldSemester)},
			{"ปีการศึกษา (ปก)", matchForm("ปีการศึกษา", (*SubmissionRecord).FormAcademicYear, fieldAcademicYear)},
			{"ข้อมูลรายวิชา (ปก)", requirePresent(fieldSubject)},
			{"รหัสวิชา (ปก)", rb.subjectCode(fieldSubjectCode, fieldLearningArea, fieldGradeLevel)},
			{"ข้อมูลกลุ่มสาระ (ปก)", requirePresent(fieldLearningArea)},
			{"หน่วยกิต (ปก)", requireNumber(fieldCredit)},
			{"เวลาเรียน (ปก)", multipleOf(fieldStudyTime, fieldCredit, rb.PeriodsPerCredit)},
			{"ครูผู้สอน (ปก)", requirePresent(fieldTeacher)},
			{"ครูที่ปรึกษา (ปก)", requirePresent(fieldAdvisor)},
			{"ความถูกต้องของ KPA (02)", rb.scoreSplit()},
			{"เวลาเรียนรวมสอดคล้องกับหน่วยกิต (03)", multipleOf(fieldTotalHours, fieldCredit, rb.HoursPerCredit)},
			{"คะแนนเต็ม (06)", requirePresent(fieldFullScore)},
		}
	case Midterm:
		return []Rule{
			{"บันทึกเวลาเรียน (03)", requireNumber("03_attendance_midterm")},
			{"คะแนนก่อนกลาง (04)", requireNumber("04_before_midterm")},
			{"คะแนนกลางภาค (04)", requireNumber("04_midterm")},
		}
	case Final:
		return []Rule{
			{"บันทึกเวลาเรียน (03)", requireNumber("03_attendance_final")},
			{"คะแนนหลังกลางภาค (05)", requireNumber("05_after_midterm")},
			{"คะแนนสอบปลายภาค (05)", requireNumber("05_final")},
			{"ตรวจสอบการให้ระดับผลการเรียน (06)", requirePresent("06_grade")},
			{"คะแนนสมรรถนะ (07)", requirePresent("07_competency")},
			{"คุณลักษณะอันพึงประสงค์ (08)", requirePresent("08_attribute")},
			{"คะแนนการอ่าน คิดวิเคราะห์และเขียน (09)", requirePresent("09_read_think_write")},
			{"ชื่อวิชาตรงกับ SGS (ปก)", matchScan("ชื่อวิชา", fieldSubject,
				func(s *OcrSubject) LooseString { return s.CourseName }, normalize)},
			{"ครูผู้สอนตรงกับ SGS (ปก)", matchScan("ครูผู้สอน", fieldTeacher,
				func(s *OcrSubject) LooseString { return s.Teacher }, rb.normalizeName)},
			{"สรุปผลการประเมินคุณลักษณะอันพึงประสงค์ (ปพ.5 SGS)", scanFlag("attitude_valid",
				func(s *OcrSubject) *bool { return s.AttitudeValid })},
			{"สรุปการประเมินการอ่าน คิด วิเคราะห์ และเขียน (ปพ.5 SGS)", scanFlag("read_analyze_write_valid",
				func(s *OcrSubject) *bool { return s.ReadAnalyzeWriteValid })},
		}
	default:
		return nil
	}
}

// EvaluatePhase runs the rules of p in order. It is pure: the same record
// always yields the same results.
func (rb *Rulebook) EvaluatePhase(p Phase, rec *SubmissionRecord) []CheckResult {
	rules := rb.Rules(p)
	results := make([]CheckResult, len(rules))
	for i, r := range rules {
		results[i] = r.Check(rec)
	}
	return results
}

// EvaluateAll evaluates every phase.
func (rb *Rulebook) EvaluateAll(rec *SubmissionRecord) PhaseResults {
	var out PhaseResults
	for i, p := range Phases {
		out[i] = rb.EvaluatePhase(p, rec)
	}
	return out
}

// Labels returns the row labels of p in order.
func (rb *Rulebook) Labels(p Phase) []string {
	rules := rb.Rules(p)
	labels := make([]string, len(rules))
	for i, r := range rules {
		labels[i] = r.Label
	}
	return labels
}

var defaultRulebook = DefaultRulebook()

// EvaluatePhase evaluates p with the default rulebook.
func EvaluatePhase(p Phase, rec *SubmissionRecord) []CheckResult {
	return defaultRulebook.EvaluatePhase(p, rec)
}

// EvaluateAll evaluates every phase with the default rulebook.
func EvaluateAll(rec *SubmissionRecord) PhaseResults {
	return defaultRulebook.EvaluateAll(rec)
}

// Labels returns the row labels of p in the default rulebook.
func Labels(p Phase) []string {
	return defaultRulebook.Labels(p)
}
