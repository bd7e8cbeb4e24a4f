package constants

const (
	AppName           = "nazmara"
	DisplayName       = "Nazm Ara"
	Version           = "v0.1.0"
	DefaultConfigDir  = "~/.config/nazmara"
	DefaultConfigPath = "~/.config/nazmara/config.yaml"
	DefaultDBPath     = "~/.config/nazmara/nazmara.db"
	EnvFileName       = "nazmara.env"

	// DateFormat is the stored format of task dates (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	DefaultBackupKeep = 14
	BackupDirName     = "backups"
	BackupFilePrefix  = "nazmara-"
	BackupFileSuffix  = ".db"

	// LockfileName guards a database against two interactive sessions
	LockfileName = "nazmara.lock"
)
