package telegram

// RightsCmd administers the internal rights list of a user.
type RightsCmd struct {
	Grant struct {
		Username string `arg:"" help:"Username (with or without @ prefix)"`
		Right    string `arg:"" help:"Right name to grant"`
	} `cmd:"" help:"Grant a right to a user"`

	Revoke struct {
		Username string `arg:"" help:"Username (with or without @ prefix)"`
		Right    string `arg:"" help:"Right name to revoke"`
	} `cmd:"" help:"Revoke a right from a user"`
}
