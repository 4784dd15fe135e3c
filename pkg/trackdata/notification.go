package trackdata

type Notification struct {
	TargetUser string
	Level      NotificationLevel

	Title   string
	Message string
}

type NotificationLevel string

const (
	NotificationLevelInfo    NotificationLevel = "Info"
	NotificationLevelWarning NotificationLevel = "Warning"
	NotificationLevelError   NotificationLevel = "Error"
)
