package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./shloka.db"

	// DefaultMilestones is the default streak bonus table, streak:coins.
	DefaultMilestones = "7:50,15:100,30:250"
)
