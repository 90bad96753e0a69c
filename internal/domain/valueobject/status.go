package valueobject

import "github.com/ignatzorin/jobledger/internal/pkg/apperror"

// ApplicationStatus — статус отклика на вакансию.
//
// Граф переходов:
//
//	pending ──► reviewing ──► accepted | rejected
//	   │            │
//	   └────────────┴──► withdrawn (только по инициативе соискателя)
//
// accepted, rejected и withdrawn — терминальные состояния.
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusReviewing ApplicationStatus = "reviewing"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:   {ApplicationStatusReviewing, ApplicationStatusWithdrawn},
	ApplicationStatusReviewing: {ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusWithdrawn},
	// терминальные состояния не имеют исходящих переходов
}

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewing, ApplicationStatusAccepted,
		ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

func (s ApplicationStatus) CanTransitionTo(newStatus ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

func NewApplicationStatus(status string) (ApplicationStatus, error) {
	s := ApplicationStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeInvalidArgument, "некорректный статус отклика")
	}
	return s, nil
}

// ScoutStatus — статус скаут-предложения.
//
// pending ──► accepted | declined; pending ──► expired (лениво, по TTL).
type ScoutStatus string

const (
	ScoutStatusPending  ScoutStatus = "pending"
	ScoutStatusAccepted ScoutStatus = "accepted"
	ScoutStatusDeclined ScoutStatus = "declined"
	ScoutStatusExpired  ScoutStatus = "expired"
)

func (s ScoutStatus) IsValid() bool {
	switch s {
	case ScoutStatusPending, ScoutStatusAccepted, ScoutStatusDeclined, ScoutStatusExpired:
		return true
	}
	return false
}

// IsResolved сообщает, что предложение уже переведено в терминальное состояние.
func (s ScoutStatus) IsResolved() bool {
	return s != ScoutStatusPending
}

// PaymentStatus — статус платного запроса контакта.
//
// initiated ──► escrowed ──► completed | refunded.
type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated"
	PaymentStatusEscrowed  PaymentStatus = "escrowed"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusInitiated, PaymentStatusEscrowed, PaymentStatusCompleted, PaymentStatusRefunded:
		return true
	}
	return false
}

// IsResolved сообщает, что средства уже покинули эскроу.
func (s PaymentStatus) IsResolved() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusRefunded
}
