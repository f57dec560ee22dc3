package context

// HostConfig is the config for the server host
type HostConfig struct {
	Name string
	Port int
}

// DatabaseConfig is the database configuration
type DatabaseConfig struct {
	Host string `mapstructure:"hostname"`
	Port int
	User string `mapstructure:"username"`
	Pass string `mapstructure:"password"`
	Name string `mapstructure:"db"`
	Pool int
}

// ParamsConfig is the config for survey and reward parameters
type ParamsConfig struct {
	QuestionCount   int   `mapstructure:"question-count"`
	SurveyReward    int64 `mapstructure:"survey-reward"`
	ChannelReward   int64 `mapstructure:"channel-reward"`
	AdWatchReward   int64 `mapstructure:"ad-watch-reward"`
	RedeemThreshold int64 `mapstructure:"redeem-threshold"`
	SpendDefault    int64 `mapstructure:"spend-default"`
}

// TelegramConfig is the config for the Telegram host platform
type TelegramConfig struct {
	BotToken string `mapstructure:"bot-token"`
}

// AdsConfig is the config for the ad network
type AdsConfig struct {
	DirectLinkURL string `mapstructure:"direct-link-url"`
}

// AdminConfig is the config for the admin authentication
type AdminConfig struct {
	Username string `mapstructure:"admin-username"`
	Password string `mapstructure:"admin-password"`
}

// WebConfig is the config for the mini-app front-end
type WebConfig struct {
	Origins []string `mapstructure:"origins"`
}

// Config contains all the config variables for the API server
type Config struct {
	Host     HostConfig
	Database DatabaseConfig
	Params   ParamsConfig
	Telegram TelegramConfig
	Ads      AdsConfig
	Admin    AdminConfig
	Web      WebConfig
}

// StarAPIContext stores the config for the API
type StarAPIContext struct {
	Config Config
}

// NewStarAPIContext creates a new API context
func NewStarAPIContext(config Config) StarAPIContext {
	return StarAPIContext{
		Config: config,
	}
}
