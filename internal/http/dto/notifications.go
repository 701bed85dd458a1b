package dto

import (
	"notifyd/internal/domain"
	"notifyd/internal/model"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

type RegisterDeviceRequest struct {
	DeviceToken string `json:"deviceToken" binding:"required,max=512"`
	DeviceType  string `json:"deviceType" binding:"required,oneof=mobile web"`
	Platform    string `json:"platform" binding:"required,oneof=android ios web"`
}

func (r RegisterDeviceRequest) Device() model.Device {
	return model.Device{DeviceToken: r.DeviceToken, DeviceType: r.DeviceType, Platform: r.Platform}
}

type DevicesResponse struct {
	Devices []model.Device `json:"devices"`
}

type QuietHoursRequest struct {
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

type UpdatePreferencesRequest struct {
	Buckets    map[domain.Bucket]model.ChannelSettings `json:"buckets"`
	QuietHours *QuietHoursRequest                      `json:"quietHours"`
}

func (r UpdatePreferencesRequest) Update() model.PreferenceUpdate {
	update := model.PreferenceUpdate{Buckets: r.Buckets}
	if r.QuietHours != nil {
		update.QuietHours = &model.QuietHours{
			Enabled:   r.QuietHours.Enabled,
			StartTime: r.QuietHours.StartTime,
			EndTime:   r.QuietHours.EndTime,
		}
	}
	return update
}

type AlertResponse struct {
	Created       int                  `json:"created"`
	Notifications []model.Notification `json:"notifications"`
	Error         string               `json:"error,omitempty"`
}
