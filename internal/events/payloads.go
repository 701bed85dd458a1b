package events

import "time"

type appointmentEvent struct {
	AppointmentID      string     `json:"appointment_id"`
	PatientID          string     `json:"patient_id"`
	DoctorID           string     `json:"doctor_id"`
	ScheduledAt        time.Time  `json:"scheduled_at"`
	RemindAt           *time.Time `json:"remind_at,omitempty"`
	Reason             string     `json:"reason,omitempty"`
	CancelledBy        string     `json:"cancelled_by,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
}

type messageEvent struct {
	MessageID      string `json:"message_id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	RecipientID    string `json:"recipient_id"`
	RecipientType  string `json:"recipient_type"`
	Preview        string `json:"preview,omitempty"`
}

type referralEvent struct {
	ReferralID   string     `json:"referral_id"`
	PatientID    string     `json:"patient_id"`
	FromDoctorID string     `json:"from_doctor_id"`
	ToDoctorID   string     `json:"to_doctor_id"`
	Specialty    string     `json:"specialty,omitempty"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
}

type clinicalEvent struct {
	ID        string `json:"id"`
	PatientID string `json:"patient_id"`
	DoctorID  string `json:"doctor_id"`
}

type documentEvent struct {
	DocumentID string `json:"document_id"`
	PatientID  string `json:"patient_id"`
	DoctorID   string `json:"doctor_id,omitempty"`
	UploadedBy string `json:"uploaded_by"`
	FileName   string `json:"file_name"`
}
