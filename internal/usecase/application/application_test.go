package application_test

import (
	"context"
	"testing"

	"github.com/ignatzorin/jobledger/internal/ledger/memstore"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
	"github.com/ignatzorin/jobledger/internal/usecase/application"
	"github.com/ignatzorin/jobledger/internal/usecase/job"
	"github.com/ignatzorin/jobledger/internal/usecase/profile"
)

type fixture struct {
	store       *memstore.Store
	jobAddr     address.Address
	profileAddr address.Address
}

const (
	recruiter = address.Address("recruiter-1")
	applicant = address.Address("applicant-1")
)

func setup(t *testing.T) fixture {
	t.Helper()
	store := memstore.New()

	jobUC := job.NewCreateJobUseCase(store, nil)
	_, err := jobUC.Execute(context.Background(), job.CreateJobInput{
		Signer:         recruiter,
		ID:             1,
		Title:          "Backend Developer",
		Description:    "Нужен разработчик на Go",
		RequiredSkills: []string{"Go"},
		SalaryMin:      80_000,
		SalaryMax:      120_000,
		DurationDays:   30,
	})
	if err != nil {
		t.Fatalf("не удалось создать вакансию: %v", err)
	}

	profUC := profile.NewCreateProfileUseCase(store, nil)
	_, err = profUC.Execute(context.Background(), profile.CreateProfileInput{
		Signer: applicant,
		Owner:  applicant,
		Skills: []string{"Go"},
	})
	if err != nil {
		t.Fatalf("не удалось создать профиль: %v", err)
	}

	jobAddr, _ := address.JobAddress(recruiter, 1)
	profAddr, _ := address.ProfileAddress(applicant)
	return fixture{store: store, jobAddr: jobAddr, profileAddr: profAddr}
}

func jobApplicationsCount(t *testing.T, f fixture) uint32 {
	t.Helper()
	rec, err := f.store.Get(context.Background(), f.jobAddr)
	if err != nil {
		t.Fatalf("не удалось прочитать вакансию: %v", err)
	}
	var j struct {
		ApplicationCount uint32 `json:"application_count"`
	}
	if err := rec.Decode(&j); err != nil {
		t.Fatalf("не удалось распаковать вакансию: %v", err)
	}
	return j.ApplicationCount
}

func apply(t *testing.T, f fixture) *application.ApplyToJobUseCase {
	t.Helper()
	uc := application.NewApplyToJobUseCase(f.store, nil)
	_, err := uc.Execute(context.Background(), application.ApplyToJobInput{
		Signer:      applicant,
		Job:         f.jobAddr,
		Profile:     f.profileAddr,
		CoverLetter: "Здравствуйте, готов приступить",
	})
	if err != nil {
		t.Fatalf("не удалось откликнуться: %v", err)
	}
	return uc
}

func TestApplyToJobUseCase_IncrementsCount(t *testing.T) {
	f := setup(t)
	apply(t, f)

	if got := jobApplicationsCount(t, f); got != 1 {
		t.Errorf("счётчик откликов должен быть 1, получено %d", got)
	}
}

func TestApplyToJobUseCase_DuplicateLeavesCountIntact(t *testing.T) {
	f := setup(t)
	uc := apply(t, f)

	_, err := uc.Execute(context.Background(), application.ApplyToJobInput{
		Signer:  applicant,
		Job:     f.jobAddr,
		Profile: f.profileAddr,
	})
	if !apperror.Is(err, apperror.ErrCodeDuplicateApplication) {
		t.Fatalf("ожидался DUPLICATE_APPLICATION, получено %v", err)
	}
	if got := jobApplicationsCount(t, f); got != 1 {
		t.Errorf("повторный отклик не должен менять счётчик: %d", got)
	}
}

func TestApplyToJobUseCase_ClosedJob(t *testing.T) {
	f := setup(t)

	closeUC := job.NewCloseJobUseCase(f.store, nil)
	if _, err := closeUC.Execute(context.Background(), job.CloseJobInput{Signer: recruiter, Job: f.jobAddr}); err != nil {
		t.Fatalf("не удалось закрыть вакансию: %v", err)
	}

	uc := application.NewApplyToJobUseCase(f.store, nil)
	_, err := uc.Execute(context.Background(), application.ApplyToJobInput{
		Signer:  applicant,
		Job:     f.jobAddr,
		Profile: f.profileAddr,
	})
	if !apperror.Is(err, apperror.ErrCodeInactiveJob) {
		t.Fatalf("отклик на закрытую вакансию должен давать INACTIVE_JOB, получено %v", err)
	}
}

func TestApplyToJobUseCase_ForeignProfile(t *testing.T) {
	f := setup(t)

	uc := application.NewApplyToJobUseCase(f.store, nil)
	_, err := uc.Execute(context.Background(), application.ApplyToJobInput{
		Signer:  "someone-else",
		Job:     f.jobAddr,
		Profile: f.profileAddr,
	})
	if !apperror.IsUnauthorized(err) {
		t.Fatalf("отклик с чужим профилем должен давать UNAUTHORIZED, получено %v", err)
	}
}

func applicationAddr(f fixture) address.Address {
	addr, _ := address.ApplicationAddress(f.jobAddr, applicant)
	return addr
}

func TestUpdateStatusUseCase_TransitionTable(t *testing.T) {
	cases := []struct {
		name   string
		path   []string
		signer address.Address
		ok     bool
	}{
		{"pending→reviewing", []string{"reviewing"}, recruiter, true},
		{"pending→accepted", []string{"accepted"}, recruiter, false},
		{"pending→rejected", []string{"rejected"}, recruiter, false},
		{"reviewing→accepted", []string{"reviewing", "accepted"}, recruiter, true},
		{"reviewing→rejected", []string{"reviewing", "rejected"}, recruiter, true},
		{"accepted→rejected", []string{"reviewing", "accepted", "rejected"}, recruiter, false},
		{"rejected→reviewing", []string{"reviewing", "rejected", "reviewing"}, recruiter, false},
		{"pending→pending", []string{"pending"}, recruiter, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := setup(t)
			apply(t, f)
			uc := application.NewUpdateStatusUseCase(f.store, nil)

			// Проверяется только последний переход пути,
			// предыдущие шаги лишь подводят к нужному статусу.
			for _, status := range tc.path[:len(tc.path)-1] {
				if _, err := uc.Execute(context.Background(), application.UpdateStatusInput{
					Signer:      tc.signer,
					Application: applicationAddr(f),
					NewStatus:   status,
				}); err != nil {
					t.Fatalf("подводящий переход в %q должен пройти: %v", status, err)
				}
			}

			_, err := uc.Execute(context.Background(), application.UpdateStatusInput{
				Signer:      tc.signer,
				Application: applicationAddr(f),
				NewStatus:   tc.path[len(tc.path)-1],
			})
			if tc.ok && err != nil {
				t.Fatalf("переход должен пройти: %v", err)
			}
			if !tc.ok && !apperror.Is(err, apperror.ErrCodeInvalidStatusTransition) {
				t.Fatalf("ожидался INVALID_STATUS_TRANSITION, получено %v", err)
			}
		})
	}
}

func TestUpdateStatusUseCase_WithdrawDecrementsCount(t *testing.T) {
	f := setup(t)
	apply(t, f)

	uc := application.NewUpdateStatusUseCase(f.store, nil)
	result, err := uc.Execute(context.Background(), application.UpdateStatusInput{
		Signer:      applicant,
		Application: applicationAddr(f),
		NewStatus:   "withdrawn",
	})
	if err != nil {
		t.Fatalf("отзыв должен пройти: %v", err)
	}
	if string(result.Status) != "withdrawn" {
		t.Errorf("статус не сменился: %s", result.Status)
	}
	if got := jobApplicationsCount(t, f); got != 0 {
		t.Errorf("отзыв должен уменьшить счётчик до 0, получено %d", got)
	}
}

func TestUpdateStatusUseCase_WithdrawOnlyByApplicant(t *testing.T) {
	f := setup(t)
	apply(t, f)

	uc := application.NewUpdateStatusUseCase(f.store, nil)
	_, err := uc.Execute(context.Background(), application.UpdateStatusInput{
		Signer:      recruiter,
		Application: applicationAddr(f),
		NewStatus:   "withdrawn",
	})
	if !apperror.IsUnauthorized(err) {
		t.Fatalf("отзыв рекрутером должен давать UNAUTHORIZED, получено %v", err)
	}
}

func TestUpdateStatusUseCase_ReviewOnlyByRecruiter(t *testing.T) {
	f := setup(t)
	apply(t, f)

	uc := application.NewUpdateStatusUseCase(f.store, nil)
	_, err := uc.Execute(context.Background(), application.UpdateStatusInput{
		Signer:      applicant,
		Application: applicationAddr(f),
		NewStatus:   "accepted",
	})
	if !apperror.IsUnauthorized(err) {
		t.Fatalf("смена статуса соискателем должна давать UNAUTHORIZED, получено %v", err)
	}
}

func TestUpdateStatusUseCase_AcceptedIsTerminalForWithdraw(t *testing.T) {
	f := setup(t)
	apply(t, f)

	uc := application.NewUpdateStatusUseCase(f.store, nil)
	for _, status := range []string{"reviewing", "accepted"} {
		if _, err := uc.Execute(context.Background(), application.UpdateStatusInput{
			Signer:      recruiter,
			Application: applicationAddr(f),
			NewStatus:   status,
		}); err != nil {
			t.Fatalf("переход в %q должен пройти: %v", status, err)
		}
	}

	_, err := uc.Execute(context.Background(), application.UpdateStatusInput{
		Signer:      applicant,
		Application: applicationAddr(f),
		NewStatus:   "withdrawn",
	})
	if !apperror.Is(err, apperror.ErrCodeInvalidStatusTransition) {
		t.Fatalf("отзыв принятого отклика должен давать INVALID_STATUS_TRANSITION, получено %v", err)
	}
}

func TestUpdateStatusUseCase_UnknownStatus(t *testing.T) {
	f := setup(t)
	apply(t, f)

	uc := application.NewUpdateStatusUseCase(f.store, nil)
	_, err := uc.Execute(context.Background(), application.UpdateStatusInput{
		Signer:      recruiter,
		Application: applicationAddr(f),
		NewStatus:   "archived",
	})
	if !apperror.Is(err, apperror.ErrCodeInvalidArgument) {
		t.Fatalf("неизвестный статус должен давать INVALID_ARGUMENT, получено %v", err)
	}
}
