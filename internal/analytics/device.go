package analytics

import "surveyanalytics/internal/domains"

// DeviceAnalytics folds per-channel session counts into device classes.
// web is desktop, tg_webapp is mobile, api is tablet; anything else is other.
func DeviceAnalytics(counts []domains.ChannelCount) domains.DeviceAnalytics {
	var devices domains.DeviceAnalytics
	for _, c := range counts {
		if c.Sessions <= 0 {
			continue
		}
		switch c.Channel {
		case "web":
			devices.Desktop += c.Sessions
		case "tg_webapp":
			devices.Mobile += c.Sessions
		case "api":
			devices.Tablet += c.Sessions
		default:
			devices.Other += c.Sessions
		}
	}
	return devices
}
