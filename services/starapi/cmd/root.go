package cmd

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/context"
	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/starapi"
)

const (
	flagHostName            = "host.name"
	flagHostPort            = "host.port"
	flagDatabaseHost        = "database.hostname"
	flagDatabasePort        = "database.port"
	flagDatabaseUser        = "database.username"
	flagDatabasePass        = "database.password"
	flagDatabaseName        = "database.db"
	flagDatabasePool        = "database.pool"
	flagParamsQuestionCount = "params.question-count"
	flagParamsSurveyReward  = "params.survey-reward"
	flagParamsChannelReward = "params.channel-reward"
	flagParamsAdWatchReward = "params.ad-watch-reward"
	flagParamsRedeemLimit   = "params.redeem-threshold"
	flagParamsSpendDefault  = "params.spend-default"
	flagTelegramBotToken    = "telegram.bot-token"
	flagAdsDirectLinkURL    = "ads.direct-link-url"
	flagAdminUsername       = "admin.admin-username"
	flagAdminPassword       = "admin.admin-password"
	flagWebOrigins          = "web.origins"
)

var (
	// Used for flags.
	configFile string

	rootCmd = &cobra.Command{
		Use:   "starapid",
		Short: "Survey & star ledger API command-line interface",
	}
)

// Execute executes the root command.
func Execute() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(startCmd())
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to the config file")

	err := rootCmd.Execute()
	if err != nil {
		fmt.Printf("Failed executing CLI command: %s, exiting...\n", err)
		os.Exit(1)
	}
}

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start API daemon, a local HTTP server",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var config context.Config
			err = viper.Unmarshal(&config)
			if err != nil {
				return err
			}

			apiCtx := context.NewStarAPIContext(config)
			starAPI := starapi.NewStarAPI(apiCtx)
			starAPI.RegisterRoutes(apiCtx)

			port := strconv.Itoa(apiCtx.Config.Host.Port)
			log.Fatal(starAPI.ListenAndServe(net.JoinHostPort(apiCtx.Config.Host.Name, port)))

			return err
		},
	}

	cmd = registerHostFlags(cmd)
	cmd = registerDatabaseFlags(cmd)
	cmd = registerParamsFlags(cmd)
	cmd = registerTelegramFlags(cmd)
	cmd = registerAdsFlags(cmd)
	cmd = registerAdminFlags(cmd)
	cmd = registerWebFlags(cmd)

	return cmd
}

func registerHostFlags(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String(flagHostName, "0.0.0.0", "Server host")
	viper.BindPFlag(flagHostName, cmd.Flags().Lookup(flagHostName))

	cmd.Flags().Int(flagHostPort, 1337, "Server port")
	viper.BindPFlag(flagHostPort, cmd.Flags().Lookup(flagHostPort))

	return cmd
}

func registerDatabaseFlags(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String(flagDatabaseHost, "0.0.0.0", "Database host name")
	viper.BindPFlag(flagDatabaseHost, cmd.Flags().Lookup(flagDatabaseHost))

	cmd.Flags().Int(flagDatabasePort, 5432, "Database port number")
	viper.BindPFlag(flagDatabasePort, cmd.Flags().Lookup(flagDatabasePort))

	cmd.Flags().String(flagDatabaseUser, "postgres", "Database username")
	viper.BindPFlag(flagDatabaseUser, cmd.Flags().Lookup(flagDatabaseUser))

	cmd.Flags().String(flagDatabasePass, "", "Database password")
	viper.BindPFlag(flagDatabasePass, cmd.Flags().Lookup(flagDatabasePass))

	cmd.Flags().String(flagDatabaseName, "quizzydb", "Database name")
	viper.BindPFlag(flagDatabaseName, cmd.Flags().Lookup(flagDatabaseName))

	cmd.Flags().Int(flagDatabasePool, 25, "Database connection pool size")
	viper.BindPFlag(flagDatabasePool, cmd.Flags().Lookup(flagDatabasePool))

	return cmd
}

func registerParamsFlags(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().Int(flagParamsQuestionCount, 3, "Number of questions in the survey")
	viper.BindPFlag(flagParamsQuestionCount, cmd.Flags().Lookup(flagParamsQuestionCount))

	cmd.Flags().Int64(flagParamsSurveyReward, 50, "Stars granted per completed survey")
	viper.BindPFlag(flagParamsSurveyReward, cmd.Flags().Lookup(flagParamsSurveyReward))

	cmd.Flags().Int64(flagParamsChannelReward, 100, "Stars granted for joining the channel")
	viper.BindPFlag(flagParamsChannelReward, cmd.Flags().Lookup(flagParamsChannelReward))

	cmd.Flags().Int64(flagParamsAdWatchReward, 10, "Stars granted per verified ad view")
	viper.BindPFlag(flagParamsAdWatchReward, cmd.Flags().Lookup(flagParamsAdWatchReward))

	cmd.Flags().Int64(flagParamsRedeemLimit, 2000, "Stars debited by a redemption")
	viper.BindPFlag(flagParamsRedeemLimit, cmd.Flags().Lookup(flagParamsRedeemLimit))

	cmd.Flags().Int64(flagParamsSpendDefault, 10, "Default star cost of an in-app spend")
	viper.BindPFlag(flagParamsSpendDefault, cmd.Flags().Lookup(flagParamsSpendDefault))

	return cmd
}

func registerTelegramFlags(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String(flagTelegramBotToken, "", "Telegram bot token used to verify WebApp init data")
	viper.BindPFlag(flagTelegramBotToken, cmd.Flags().Lookup(flagTelegramBotToken))

	return cmd
}

func registerAdsFlags(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String(flagAdsDirectLinkURL, "", "Ad network direct link opened as the gated action")
	viper.BindPFlag(flagAdsDirectLinkURL, cmd.Flags().Lookup(flagAdsDirectLinkURL))

	return cmd
}

func registerAdminFlags(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String(flagAdminUsername, "admin", "Admin username for the redemption queue")
	viper.BindPFlag(flagAdminUsername, cmd.Flags().Lookup(flagAdminUsername))

	cmd.Flags().String(flagAdminPassword, "", "Admin password for the redemption queue")
	viper.BindPFlag(flagAdminPassword, cmd.Flags().Lookup(flagAdminPassword))

	return cmd
}

func registerWebFlags(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().StringSlice(flagWebOrigins, []string{"*"}, "Allowed CORS origins for the mini-app front-end")
	viper.BindPFlag(flagWebOrigins, cmd.Flags().Lookup(flagWebOrigins))

	return cmd
}

func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("starapid")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("Can't read config: %s. Using flags, environment variables, or defaults.\n", err)
	}
}
