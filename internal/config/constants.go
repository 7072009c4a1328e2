package config

const (
	// DefaultDatabasePath is the SQLite file used when DB_DRIVER=sqlite
	DefaultDatabasePath = "./bookstore.db"

	// DefaultTokenIssuer is the "iss" claim of issued access tokens
	DefaultTokenIssuer = "bookstore"
)
