package entity

import (
	"time"

	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 1000
	maxDurationDays   = 365
)

// Job — вакансия рекрутера. ID выбирается рекрутером и уникален
// в пределах его identity: адрес выводится из пары (recruiter, id).
type Job struct {
	Recruiter        address.Address `json:"recruiter"`
	ID               uint64          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	RequiredSkills   []string        `json:"required_skills"`
	SalaryMin        uint64          `json:"salary_min"`
	SalaryMax        uint64          `json:"salary_max"`
	DurationDays     uint16          `json:"duration_days"`
	ApplicationCount uint32          `json:"application_count"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
}

// NewJob создаёт активную вакансию с нулевым счётчиком откликов.
func NewJob(recruiter address.Address, id uint64, title, description string, requiredSkills []string,
	salaryMin, salaryMax uint64, durationDays uint16, now time.Time) (*Job, error) {

	if title == "" || len(title) > maxTitleLen {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "заголовок должен быть длиной от 1 до 100 символов")
	}
	if len(description) > maxDescriptionLen {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "описание слишком длинное (максимум 1000 символов)")
	}
	if err := validateSkills(requiredSkills); err != nil {
		return nil, err
	}
	if salaryMin > salaryMax {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "минимальная зарплата не может превышать максимальную")
	}
	if durationDays == 0 || durationDays > maxDurationDays {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "длительность должна быть от 1 до 365 дней")
	}

	return &Job{
		Recruiter:        recruiter,
		ID:               id,
		Title:            title,
		Description:      description,
		RequiredSkills:   requiredSkills,
		SalaryMin:        salaryMin,
		SalaryMax:        salaryMax,
		DurationDays:     durationDays,
		ApplicationCount: 0,
		IsActive:         true,
		CreatedAt:        now,
	}, nil
}

// Close снимает вакансию с публикации. Повторное закрытие — ошибка.
func (j *Job) Close() error {
	if !j.IsActive {
		return apperror.New(apperror.ErrCodeInactiveJob, "вакансия уже закрыта")
	}
	j.IsActive = false
	return nil
}

// IncrementApplications увеличивает счётчик активных откликов.
func (j *Job) IncrementApplications() {
	j.ApplicationCount++
}

// DecrementApplications уменьшает счётчик при отзыве отклика.
func (j *Job) DecrementApplications() {
	if j.ApplicationCount > 0 {
		j.ApplicationCount--
	}
}

func (j *Job) IsOwnedBy(signer address.Address) bool {
	return j.Recruiter == signer
}
