package models

// User is the subset of a user profile the notifier needs.
type User struct {
	ID                   string `json:"id" firestore:"-" gorm:"column:firebase_uid;primaryKey"`
	FCMToken             string `json:"fcmToken,omitempty" firestore:"fcmToken,omitempty" gorm:"column:fcm_token"`
	DisplayName          string `json:"displayName,omitempty" firestore:"displayName,omitempty" gorm:"column:display_name"`
	NotificationsEnabled *bool  `json:"notificationsEnabled,omitempty" firestore:"notificationsEnabled,omitempty" gorm:"column:notifications_enabled"`
}

// TableName maps User onto the legacy PostgreSQL users table.
func (User) TableName() string {
	return "users"
}

// WantsNotifications reports whether pushes may be sent to the user.
// A missing preference counts as enabled; only an explicit false opts out.
func (u *User) WantsNotifications() bool {
	return u.NotificationsEnabled == nil || *u.NotificationsEnabled
}

// HasToken reports whether the user has a registered device token.
func (u *User) HasToken() bool {
	return u.FCMToken != ""
}
