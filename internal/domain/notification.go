package domain

import "errors"

type NotificationType string

const (
	NotificationTypeAppointmentConfirmed NotificationType = "appointment_confirmed"
	NotificationTypeAppointmentRejected  NotificationType = "appointment_rejected"
	NotificationTypeAppointmentReminder  NotificationType = "appointment_reminder"
	NotificationTypeAppointmentCancelled NotificationType = "appointment_cancelled"
	NotificationTypeNewMessage           NotificationType = "new_message"
	NotificationTypeReferralReceived     NotificationType = "referral_received"
	NotificationTypeReferralScheduled    NotificationType = "referral_scheduled"
	NotificationTypeConsultationCreated  NotificationType = "consultation_created"
	NotificationTypePrescriptionCreated  NotificationType = "prescription_created"
	NotificationTypeDocumentUploaded     NotificationType = "document_uploaded"
	NotificationTypeAdminAlert           NotificationType = "admin_alert"
	NotificationTypeSystemAlert          NotificationType = "system_alert"
)

type RecipientType string

const (
	RecipientPatient RecipientType = "patient"
	RecipientDoctor  RecipientType = "doctor"
	RecipientAdmin   RecipientType = "admin"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Severity is the level attached to admin alerts by the audit pipeline.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

const (
	MaxTitleLength = 200
	MaxBodyLength  = 500
	// MaxErrorLength matches the push_error and email_error columns.
	MaxErrorLength = 512
)

var (
	ErrInvalidNotificationType = errors.New("invalid notification type")
	ErrInvalidRecipientType    = errors.New("invalid recipient type")
	ErrInvalidPriority         = errors.New("invalid priority")
	ErrInvalidSeverity         = errors.New("invalid severity")
)

func IsValidNotificationType(value NotificationType) bool {
	switch value {
	case NotificationTypeAppointmentConfirmed,
		NotificationTypeAppointmentRejected,
		NotificationTypeAppointmentReminder,
		NotificationTypeAppointmentCancelled,
		NotificationTypeNewMessage,
		NotificationTypeReferralReceived,
		NotificationTypeReferralScheduled,
		NotificationTypeConsultationCreated,
		NotificationTypePrescriptionCreated,
		NotificationTypeDocumentUploaded,
		NotificationTypeAdminAlert,
		NotificationTypeSystemAlert:
		return true
	default:
		return false
	}
}

func IsValidRecipientType(value RecipientType) bool {
	switch value {
	case RecipientPatient, RecipientDoctor, RecipientAdmin:
		return true
	default:
		return false
	}
}

func IsValidPriority(value Priority) bool {
	switch value {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// PriorityForSeverity maps an admin alert severity onto a notification priority.
func PriorityForSeverity(s Severity) (Priority, error) {
	switch s {
	case SeverityLow:
		return PriorityLow, nil
	case SeverityMedium:
		return PriorityMedium, nil
	case SeverityHigh:
		return PriorityHigh, nil
	case SeverityCritical:
		return PriorityUrgent, nil
	default:
		return "", ErrInvalidSeverity
	}
}
