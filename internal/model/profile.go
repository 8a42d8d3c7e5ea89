package model

// Credentials are the HTTP basic-auth user and password for a server.
type Credentials struct {
	User     string
	Password string
}

// Profile identifies one hledger-web server connection.
type Profile struct {
	ID               int64 // 0 until the profile has been saved
	Name             string
	URL              string
	Credentials      *Credentials
	APIVersion       APIVersion
	DetectedVersion  *ServerVersion
	DefaultCommodity string
}

// Persisted reports whether the profile has been assigned an id.
func (p Profile) Persisted() bool {
	return p.ID != 0
}
