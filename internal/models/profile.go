package models

import "time"

// Profile 老人档案（单例记录，last-write-wins upsert，无生命周期）
type Profile struct {
	ProfileID      string    `json:"id"`
	Name           string    `json:"name"`
	Age            *int      `json:"age"`
	EducationYears *int      `json:"education_years"`
	DiagnosisNotes *string   `json:"diagnosis_notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProfileInput 校验后的档案字段
type ProfileInput struct {
	Name           string
	Age            *int
	EducationYears *int
	DiagnosisNotes *string
}

// ProfileSubmission PUT /api/profile 请求体
type ProfileSubmission struct {
	Name           string   `json:"name"`
	Age            IntValue `json:"age"`
	EducationYears IntValue `json:"education_years"`
	DiagnosisNotes string   `json:"diagnosis_notes"`
}
