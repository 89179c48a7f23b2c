package main

import (
	"fmt"
	"log/slog"
	"os"

	"orderportal/cmd"
	httpin "orderportal/internal/adapters/in/http"
	"orderportal/internal/adapters/out/postgres/formrepo"
	"orderportal/internal/adapters/out/postgres/orderrepo"
	"orderportal/internal/core/domain/services/workflow"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	workflowConfig, err := workflow.LoadConfig(configs.WorkflowConfigPath)
	if err != nil {
		log.Fatalf("Invalid workflow configuration: %v", err)
	}

	gormDB, err := openDatabase(configs)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, workflowConfig, logger)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:            goDotEnvVariable("HTTP_PORT"),
		DBHost:              goDotEnvVariable("DB_HOST"),
		DBPort:              goDotEnvVariable("DB_PORT"),
		DBUser:              goDotEnvVariable("DB_USER"),
		DBPassword:          goDotEnvVariable("DB_PASSWORD"),
		DBName:              goDotEnvVariable("DB_NAME"),
		DBSslMode:           goDotEnvVariable("DB_SSLMODE"),
		AccountsAPIURL:      goDotEnvVariable("ACCOUNTS_API_URL"),
		WorkflowConfigPath:  goDotEnvVariable("WORKFLOW_CONFIG_PATH"),
		OrderNumberPattern:  goDotEnvVariable("ORDER_NUMBER_PATTERN"),
		StaleOrderAgeHours:  goDotEnvVariable("STALE_ORDER_AGE_HOURS"),
		AutopopulateSources: goDotEnvVariable("AUTOPOPULATE_SOURCES"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderNumberDTO{},
		&formrepo.FormDTO{},
	)
	if err != nil {
		return nil, err
	}

	return gormDB, nil
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	httpin.RegisterRoutes(e, app.CreateServer())

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
