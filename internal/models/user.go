package models

import "time"

// Collection names in the document database.
const (
	CollectionUsers      = "users"
	CollectionRoles      = "roles"
	CollectionSettings   = "settings"
	CollectionSystemLogs = "system_logs"
)

// SettingsDocID is the well-known id of the global settings document.
const SettingsDocID = "global"

// App types accepted in the X-AppType signup header.
const (
	AppTypeApp = "app_user"
	AppTypeWeb = "web_user"
)

// IsAllowedAppType reports whether t is a recognized client app type.
func IsAllowedAppType(t string) bool {
	return t == AppTypeApp || t == AppTypeWeb
}

// Profile is the denormalized user document mirrored from the identity
// provider. The provider owns the authentication secret; the profile only
// carries authorization metadata and OTP state. The document id is the
// provider-assigned uid.
type Profile struct {
	UID           string
	Email         string
	Role          string
	AppType       string
	EmailOTP      string
	OTPCreatedAt  time.Time
	VerifiedEmail bool
}

// Doc returns the signup-time document fields.
func (p *Profile) Doc() map[string]interface{} {
	return map[string]interface{}{
		"email":   p.Email,
		"role":    p.Role,
		"appType": p.AppType,
	}
}

// ProfileFromDoc decodes a user document. Missing or cleared OTP fields
// decode to zero values.
func ProfileFromDoc(id string, doc map[string]interface{}) *Profile {
	p := &Profile{UID: id}
	if v, ok := doc["email"].(string); ok {
		p.Email = v
	}
	if v, ok := doc["role"].(string); ok {
		p.Role = v
	}
	if v, ok := doc["appType"].(string); ok {
		p.AppType = v
	}
	if v, ok := doc["emailOtp"].(string); ok {
		p.EmailOTP = v
	}
	if v, ok := doc["otpCreatedAt"].(time.Time); ok {
		p.OTPCreatedAt = v
	}
	if v, ok := doc["verifiedEmail"].(bool); ok {
		p.VerifiedEmail = v
	}
	return p
}
