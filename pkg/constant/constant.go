package constant

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	ProviderNone   = "NONE"
	ProviderGoogle = "GOOGLE"
	ProviderYandex = "YANDEX"

	// BcryptCost matches the salt rounds used when the user base was first created.
	BcryptCost = 10

	RefreshTokenCookie = "Refresh-Token"
	BearerPrefix       = "Bearer "
)
