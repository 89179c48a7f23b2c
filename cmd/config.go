package cmd

type Config struct {
	HTTPPort            string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBSslMode           string
	AccountsAPIURL      string
	WorkflowConfigPath  string
	OrderNumberPattern  string
	StaleOrderAgeHours  string
	AutopopulateSources string
}
