package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"notifyd/internal/directory"
	"notifyd/internal/domain"
	"notifyd/internal/metrics"
	"notifyd/internal/model"
)

const dateLayout = "Mon, 02 Jan 2006 15:04"

type Creator interface {
	Create(ctx context.Context, req model.CreationRequest) (model.Notification, error)
}

type builder func(r *Router, ctx context.Context, payload []byte) (model.CreationRequest, error)

var builders = map[Topic]builder{
	TopicAppointmentConfirmed: buildAppointmentConfirmed,
	TopicAppointmentRejected:  buildAppointmentRejected,
	TopicAppointmentReminder:  buildAppointmentReminder,
	TopicAppointmentCancelled: buildAppointmentCancelled,
	TopicMessageCreated:       buildMessageCreated,
	TopicReferralReceived:     buildReferralReceived,
	TopicReferralScheduled:    buildReferralScheduled,
	TopicConsultationCreated:  buildConsultationCreated,
	TopicPrescriptionCreated:  buildPrescriptionCreated,
	TopicDocumentUploaded:     buildDocumentUploaded,
}

type Router struct {
	directory directory.Directory
	creator   Creator
	metrics   *metrics.Metrics
	loc       *time.Location
	log       *zap.Logger
}

func NewRouter(dir directory.Directory, creator Creator, m *metrics.Metrics, loc *time.Location, logger *zap.Logger) *Router {
	if loc == nil {
		loc = time.UTC
	}
	return &Router{directory: dir, creator: creator, metrics: m, loc: loc, log: logger}
}

// Route builds the creation request for a topic. An unknown topic is not an
// error: it yields nil. A payload that cannot be decoded wraps
// domain.ErrInvalidRequest. Title and body are clamped to their limits.
func (r *Router) Route(ctx context.Context, topic string, payload []byte) (*model.CreationRequest, error) {
	build, ok := builders[Topic(topic)]
	if !ok {
		r.log.Warn("no route for topic", zap.String("topic", topic))
		if r.metrics != nil {
			r.metrics.RoutingMisses.Inc()
		}
		return nil, nil
	}
	req, err := build(r, ctx, payload)
	if err != nil {
		r.log.Warn("event payload rejected", zap.String("topic", topic), zap.Error(err))
		return nil, err
	}
	// Display names and free-text reasons come from other services.
	req.Title = truncate(req.Title, domain.MaxTitleLength)
	req.Body = truncate(req.Body, domain.MaxBodyLength)
	return &req, nil
}

// Handle routes the event and creates the notification. It returns nil, nil
// for unrouted topics.
func (r *Router) Handle(ctx context.Context, topic string, payload []byte) (*model.Notification, error) {
	req, err := r.Route(ctx, topic, payload)
	if err != nil || req == nil {
		return nil, err
	}
	n, err := r.creator.Create(ctx, *req)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *Router) name(ctx context.Context, id, fallback string) string {
	return directory.DisplayName(ctx, r.directory, id, fallback)
}

func (r *Router) date(t time.Time) string {
	return t.In(r.loc).Format(dateLayout)
}

func decode(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return nil
}

func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrInvalidRequest, name)
		}
	}
	return nil
}

func ref(kind, id string) *model.ResourceRef {
	return &model.ResourceRef{Type: kind, ID: id}
}

func decodeAppointment(payload []byte) (appointmentEvent, error) {
	var e appointmentEvent
	if err := decode(payload, &e); err != nil {
		return e, err
	}
	return e, requireFields(map[string]string{
		"appointment_id": e.AppointmentID,
		"patient_id":     e.PatientID,
		"doctor_id":      e.DoctorID,
	})
}

func buildAppointmentConfirmed(r *Router, ctx context.Context, payload []byte) (model.CreationRequest, error) {
	e, err := decodeAppointment(payload)
	if err != nil {
		return model.CreationRequest{}, err
	}
	doctor := r.name(ctx, e.DoctorID, "your doctor")
	return model.CreationRequest{
		RecipientID:     e.PatientID,
		RecipientType:   domain.RecipientPatient,
		Type:            domain.NotificationTypeAppointmentConfirmed,
		Title:           "Appointment confirmed",
		Body:            fmt.Sprintf("Your appointment with %s on %s has been confirmed.", doctor, r.date(e.ScheduledAt)),
		Priority:        domain.PriorityHigh,
		RelatedResource: ref("appointment", e.AppointmentID),
		ActionURL:       "/appointments/" + e.AppointmentID,
		ActionData:      map[string]any{"appointment_id": e.AppointmentID, "doctor_id": e.DoctorID},
	}, nil
}

func buildAppointmentRejected(r *Router, ctx context.Context, payload []byte) (model.CreationRequest, error) {
	e, err := decodeAppointment(payload)
	if err != nil {
		return model.CreationRequest{}, err
	}
	doctor := r.name(ctx, e.DoctorID, "your doctor")
	body := fmt.Sprintf("%s could not accept your appointment on %s.", doctor, r.date(e.ScheduledAt))
	if e.Reason != "" {
		body += " Reason: " + e.Reason
	}
	return model.CreationRequest{
		RecipientID:     e.PatientID,
		RecipientType:   domain.RecipientPatient,
		Type:            domain.NotificationTypeAppointmentRejected,
		Title:           "Appointment declined",
		Body:            body,
		Priority:        domain.PriorityHigh,
		RelatedResource: ref("appointment", e.AppointmentID),
		ActionURL:       "/appointments/" + e.AppointmentID,
		ActionData:      map[string]any{"appointment_id": e.AppointmentID, "doctor_id": e.DoctorID},
	}, nil
}

// buildAppointmentReminder schedules the notification at remind_at when the
// event carries one.
func buildAppointmentReminder(r *Router, ctx context.Context, payload []byte) (model.CreationRequest, error) {
	e, err := decodeAppointment(payload)
	if err != nil {
		return model.CreationRequest{}, err
	}
	doctor := r.name(ctx, e.DoctorID, "your doctor")
	return model.CreationRequest{
		RecipientID:     e.PatientID,
		RecipientType:   domain.RecipientPatient,
		Type:            domain.NotificationTypeAppointmentReminder,
		Title:           "Upcoming appointment",
		Body:            fmt.Sprintf("Reminder: you have an appointment with %s on %s.", doctor, r.date(e.ScheduledAt)),
		Priority:        domain.PriorityMedium,
		RelatedResource: ref("appointment", e.AppointmentID),
		ActionURL:       "/appointments/" + e.AppointmentID,
		ActionData:      map[string]any{"appointment_id": e.AppointmentID},
		ScheduledFor:    e.RemindAt,
	}, nil
}

// buildAppointmentCancelled notifies the other party: the doctor when the
// patient cancelled, the patient otherwise.
func buildAppointmentCancelled(r *Router, ctx context.Context, payload []byte) (model.CreationRequest, error) {
	e, err := decodeAppointment(payload)
	if err != nil {
		return model.CreationRequest{}, err
	}
	req := model.CreationRequest{
		Type:            domain.NotificationTypeAppointmentCancelled,
		Title:           "Appointment cancelled",
		Priority:        domain.PriorityHigh,
		RelatedResource: ref("appointment", e.AppointmentID),
		ActionURL:       "/appointments/" + e.AppointmentID,
		ActionData:      map[string]any{"appointment_id": e.AppointmentID, "cancelled_by": e.CancelledBy},
	}
	var body string
	if e.CancelledBy == string(domain.RecipientPatient) {
		req.RecipientID = e.DoctorID
		req.RecipientType = domain.RecipientDoctor
		patient := r.name(ctx, e.PatientID, "A patient")
		body = fmt.Sprintf("%s cancelled the appointment on %s.", patient, r.date(e.ScheduledAt))
	} else {
		req.RecipientID = e.PatientID
		req.RecipientType = domain.RecipientPatient
		doctor := r.name(ctx, e.DoctorID, "your doctor")
		body = fmt.Sprintf("Your appointment with %s on %s has been cancelled.", doctor, r.date(e.ScheduledAt))
	}
	if e.CancellationReason != "" {
		body += " Reason: " + e.CancellationReason
	}
	req.Body = body
	return req, nil
}

func buildMessageCreated(r *Router, ctx context.Context, payload []byte) (model.CreationRequest, error) {
	var e messageEvent
	if err := decode(payload, &e); err != nil {
		return model.CreationRequest{}, err
	}
	if err := requireFields(map[string]string{
		"message_id":     e.MessageID,
		"sender_id":      e.SenderID,
		"recipient_id":   e.RecipientID,
		"recipient_type": e.RecipientType,
	}); err != nil {
		return model.CreationRequest{}, err
	}
	sender := r.name(ctx, e.SenderID, "Someone")
	body := sender + " sent you a message."
	if e.Preview != "" {
		body = sender + ": " + e.Preview
	}
	return model.CreationRequest{
		RecipientID:     e.RecipientID,
		RecipientType:   domain.RecipientType(e.RecipientType),
		Type:            domain.NotificationTypeNewMessage,
		Title:           "New message",
		Body:            body,
		Priority:        domain.PriorityMedium,
		RelatedResource: ref("message", e.MessageID),
		ActionURL:       "/conversations/" + e.ConversationID,
		ActionData:      map[string]any{"conversation_id": e.ConversationID, "sender_id": e.SenderID},
	}, nil
}

func decodeReferral(payload []byte) (referralEvent, error) {
	var e referralEvent
	if err := decode(payload, &e); err != nil {
		return e, err
	}
	return e, requireFields(map[string]string{
		"referral_id":  e.ReferralID,
		"patient_id":   e.PatientID,
		"to_doctor_id": e.ToDoctorID,
	})
}

func buildReferralReceived(r *Router, ctx context.Context, payload []byte) (model.CreationRequest, error) {
	e, err := decodeReferral(payload)
	if err != nil {
		return model.CreationRequest{}, err
	}
	from := r.name(ctx, e.FromDoctorID, "A colleague")
	patient := r.name(ctx, e.PatientID, "a patient")
	return model.CreationRequest{
		RecipientID:     e.ToDoctorID,
		RecipientType:   domain.RecipientDoctor,
		Type:            domain.NotificationTypeReferralReceived,
		Title:           "New referral",
		Body:            fmt.Sprintf("%s referred %s to you.", from, patient),
		Priority:        domain.PriorityHigh,
		RelatedResource: ref("referral", e.ReferralID),
		ActionURL:       "/referrals/" + e.ReferralID,
		ActionData:      map[string]any{"referral_id": e.ReferralID, "patient_id": e.PatientID},
	}, nil
}

func buildReferralScheduled(r *Router, ctx context.Context, payload []byte) (model.CreationRequest, error) {
	e, err := decodeReferral(payload)
	if err != nil {
		return model.CreationRequest{}, err
	}
	doctor := r.name(ctx, e.ToDoctorID, "a specialist")
	body := fmt.Sprintf("Your referral appointment with %s has been scheduled.", doctor)
	if e.ScheduledAt != nil {
		body = fmt.Sprintf("Your referral appointment with %s is scheduled for %s.", doctor, r.date(*e.ScheduledAt))
	}
	return model.CreationRequest{
		RecipientID:     e.PatientID,
		RecipientType:   domain.RecipientPatient,
		Type:            domain.NotificationTypeReferralScheduled,
		Title:           "Referral scheduled",
		Body:            body,
		Priority:        domain.PriorityMedium,
		RelatedResource: ref("referral", e.ReferralID),
		ActionURL:       "/referrals/" + e.ReferralID,
		ActionData:      map[string]any{"referral_id": e.ReferralID},
	}, nil
}

func decodeClinical(payload []byte) (clinicalEvent, error) {
	var e clinicalEvent
	if err := decode(payload, &e); err != nil {
		return e, err
	}
	return e, requireFields(map[string]string{"id": e.ID, "patient_id": e.PatientID})
}

func buildConsultationCreated(r *Router, ctx context.Context, payload []byte) (model.CreationRequest, error) {
	e, err := decodeClinical(payload)
	if err != nil {
		return model.CreationRequest{}, err
	}
	doctor := r.name(ctx, e.DoctorID, "Your doctor")
	return model.CreationRequest{
		RecipientID:     e.PatientID,
		RecipientType:   domain.RecipientPatient,
		Type:            domain.NotificationTypeConsultationCreated,
		Title:           "Consultation notes available",
		Body:            fmt.Sprintf("%s added notes from your consultation.", doctor),
		Priority:        domain.PriorityMedium,
		RelatedResource: ref("consultation", e.ID),
		ActionURL:       "/consultations/" + e.ID,
		ActionData:      map[string]any{"consultation_id": e.ID},
	}, nil
}

func buildPrescriptionCreated(r *Router, ctx context.Context, payload []byte) (model.CreationRequest, error) {
	e, err := decodeClinical(payload)
	if err != nil {
		return model.CreationRequest{}, err
	}
	doctor := r.name(ctx, e.DoctorID, "Your doctor")
	return model.CreationRequest{
		RecipientID:     e.PatientID,
		RecipientType:   domain.RecipientPatient,
		Type:            domain.NotificationTypePrescriptionCreated,
		Title:           "New prescription",
		Body:            fmt.Sprintf("%s issued a new prescription for you.", doctor),
		Priority:        domain.PriorityHigh,
		RelatedResource: ref("prescription", e.ID),
		ActionURL:       "/prescriptions/" + e.ID,
		ActionData:      map[string]any{"prescription_id": e.ID},
	}, nil
}

// buildDocumentUploaded notifies the doctor of a patient upload and the
// patient of anything else.
func buildDocumentUploaded(r *Router, ctx context.Context, payload []byte) (model.CreationRequest, error) {
	var e documentEvent
	if err := decode(payload, &e); err != nil {
		return model.CreationRequest{}, err
	}
	if err := requireFields(map[string]string{"document_id": e.DocumentID, "patient_id": e.PatientID}); err != nil {
		return model.CreationRequest{}, err
	}
	req := model.CreationRequest{
		Type:            domain.NotificationTypeDocumentUploaded,
		Title:           "New document",
		Priority:        domain.PriorityLow,
		RelatedResource: ref("document", e.DocumentID),
		ActionURL:       "/documents/" + e.DocumentID,
		ActionData:      map[string]any{"document_id": e.DocumentID, "file_name": e.FileName},
	}
	file := e.FileName
	if file == "" {
		file = "a document"
	}
	if e.UploadedBy == string(domain.RecipientPatient) && e.DoctorID != "" {
		req.RecipientID = e.DoctorID
		req.RecipientType = domain.RecipientDoctor
		req.Body = fmt.Sprintf("%s uploaded %s.", r.name(ctx, e.PatientID, "A patient"), file)
	} else {
		req.RecipientID = e.PatientID
		req.RecipientType = domain.RecipientPatient
		req.Body = fmt.Sprintf("%s was added to your records.", file)
	}
	return req, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
