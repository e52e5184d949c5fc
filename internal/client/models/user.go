package models

// User is the identity returned by GET /auth/me.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Owner is the short user view embedded in companies and audit records.
type Owner struct {
	ID        int64  `json:"id,omitempty"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// TokenPair is the credential pair issued by POST /auth/login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Admin is an entry of GET /dashboard/admins.
type Admin struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// AdminStats is the payload of GET /dashboard/stats.
type AdminStats struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalCompanies int64 `json:"totalCompanies"`
}
