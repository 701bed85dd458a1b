// Package events turns domain events from the bus into notification requests.
package events

type Topic string

const (
	TopicAppointmentConfirmed Topic = "appointment.confirmed"
	TopicAppointmentRejected  Topic = "appointment.rejected"
	TopicAppointmentReminder  Topic = "appointment.reminder"
	TopicAppointmentCancelled Topic = "appointment.cancelled"
	TopicMessageCreated       Topic = "message.created"
	TopicReferralReceived     Topic = "referral.received"
	TopicReferralScheduled    Topic = "referral.scheduled"
	TopicConsultationCreated  Topic = "consultation.created"
	TopicPrescriptionCreated  Topic = "prescription.created"
	TopicDocumentUploaded     Topic = "document.uploaded"

	// TopicAdminAlert is not routed here; the consumer hands it to the alert service.
	TopicAdminAlert Topic = "admin.alert"
)

// Topics lists every topic the router has a builder for.
func Topics() []Topic {
	topics := make([]Topic, 0, len(builders))
	for t := range builders {
		topics = append(topics, t)
	}
	return topics
}

func IsRouted(t Topic) bool {
	_, ok := builders[t]
	return ok
}
