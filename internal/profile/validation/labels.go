package validation

// fieldLabels maps field names to the display labels used in error messages.
// Unmapped fields fall back to the raw field name.
var fieldLabels = map[string]string{
	"name":                "이름",
	"english_name":        "영문 이름",
	"resident_number":     "주민등록번호",
	"birth_date":          "생년월일",
	"gender":              "성별",
	"mobile_phone":        "휴대전화",
	"home_phone":          "자택전화",
	"emergency_contact":   "비상연락처",
	"email":               "이메일",
	"registered_address":  "주민등록주소",
	"actual_address":      "실거주주소",
	"blood_type":          "혈액형",
	"marital_status":      "결혼여부",
	"department":          "부서",
	"position":            "직급",
	"job_title":           "직책",
	"employment_status":   "재직상태",
	"employee_number":     "사번",
	"join_date":           "입사일",
	"work_email":          "회사 이메일",
	"work_phone":          "회사 전화",
	"messenger_id":        "메신저 아이디",
	"contract_type":       "계약형태",
	"contract_start_date": "계약시작일",
	"contract_end_date":   "계약종료일",
	"base_salary":         "기본급",
	"meal_allowance":      "식대",
	"school_name":         "학교명",
	"major":               "전공",
	"education_level":     "최종학력",
	"graduation_date":     "졸업일",
	"company_name":        "회사명",
	"career_start_date":   "근무시작일",
	"career_end_date":     "근무종료일",
	"final_position":      "최종직급",
	"relation":            "관계",
	"family_name":         "가족 성명",
	"family_birth_date":   "가족 생년월일",
	"family_phone":        "가족 연락처",
	"cohabiting":          "동거여부",
	"bank":                "은행",
	"account_number":      "계좌번호",
	"account_holder":      "예금주",
	"military_service":    "병역구분",
	"service_start_date":  "입대일",
	"service_end_date":    "전역일",
	"rank":                "계급",
	"exemption_reason":    "면제사유",
}

// labelFor resolves the display label for a field, falling back to the raw
// field name when no label is registered.
func labelFor(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}
