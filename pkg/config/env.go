package config

const (
	EnvPrefix = "DESIGNSTUDIO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:designstudio.db?cache=shared"
)

const (
	EnvAppEnv        = "DESIGNSTUDIO_APP_ENV"
	EnvPort          = "DESIGNSTUDIO_APP_PORT"
	EnvDBDSN         = "DESIGNSTUDIO_DB_DSN"
	EnvDBDriver      = "DESIGNSTUDIO_DB_DRIVER"
	EnvDBHost        = "DESIGNSTUDIO_DB_HOST"
	EnvDBUser        = "DESIGNSTUDIO_DB_USER"
	EnvDBName        = "DESIGNSTUDIO_DB_NAME"
	EnvRedisURL      = "DESIGNSTUDIO_REDIS_URL"
	EnvSessionSecret = "DESIGNSTUDIO_SESSION_SECRET"
	EnvCatalogURL    = "DESIGNSTUDIO_CATALOG_BASE_URL"
	EnvShopifyDomain = "DESIGNSTUDIO_SHOPIFY_STORE_DOMAIN"
	EnvShopifyToken  = "DESIGNSTUDIO_SHOPIFY_STOREFRONT_ACCESS_TOKEN"
	EnvShopifyAPIVer = "DESIGNSTUDIO_SHOPIFY_API_VERSION"
	EnvWizardPath    = "DESIGNSTUDIO_WIZARD_BASE_PATH"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
