package enums

type AuditAction string

const (
	AuditActionTempMute        AuditAction = "TEMPMUTE"
	AuditActionUnmute          AuditAction = "UNMUTE"
	AuditActionTimeout         AuditAction = "TIMEOUT"
	AuditActionUntimeout       AuditAction = "UNTIMEOUT"
	AuditActionBan             AuditAction = "BAN"
	AuditActionUnban           AuditAction = "UNBAN"
	AuditActionWarn            AuditAction = "WARN"
	AuditActionViewSanctions   AuditAction = "VIEW_SANCTIONS"
	AuditActionDeleteSanctions AuditAction = "DELETE_SANCTIONS"
	AuditActionMuteExpired     AuditAction = "MUTE_EXPIRED"
)
