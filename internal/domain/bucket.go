package domain

// Bucket groups notification types that share one preference entry.
type Bucket string

const (
	BucketAppointmentConfirmed Bucket = "appointmentConfirmed"
	BucketAppointmentReminder  Bucket = "appointmentReminder"
	BucketAppointmentCancelled Bucket = "appointmentCancelled"
	BucketNewMessage           Bucket = "newMessage"
	BucketReferral             Bucket = "referral"
	BucketPrescription         Bucket = "prescription"
	BucketSystemAlert          Bucket = "systemAlert"
)

var Buckets = []Bucket{
	BucketAppointmentConfirmed,
	BucketAppointmentReminder,
	BucketAppointmentCancelled,
	BucketNewMessage,
	BucketReferral,
	BucketPrescription,
	BucketSystemAlert,
}

var bucketByType = map[NotificationType]Bucket{
	NotificationTypeAppointmentConfirmed: BucketAppointmentConfirmed,
	NotificationTypeAppointmentRejected:  BucketAppointmentConfirmed,
	NotificationTypeAppointmentReminder:  BucketAppointmentReminder,
	NotificationTypeAppointmentCancelled: BucketAppointmentCancelled,
	NotificationTypeNewMessage:           BucketNewMessage,
	NotificationTypeReferralReceived:     BucketReferral,
	NotificationTypeReferralScheduled:    BucketReferral,
	NotificationTypePrescriptionCreated:  BucketPrescription,
	NotificationTypeAdminAlert:           BucketSystemAlert,
	NotificationTypeSystemAlert:          BucketSystemAlert,
}

// BucketFor returns the preference bucket of a notification type.
// Types without an entry fall back to the system alert bucket.
func BucketFor(t NotificationType) Bucket {
	if b, ok := bucketByType[t]; ok {
		return b
	}
	return BucketSystemAlert
}

func IsValidBucket(b Bucket) bool {
	for _, known := range Buckets {
		if known == b {
			return true
		}
	}
	return false
}
