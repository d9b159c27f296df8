package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type DeployReportMailData struct {
	OperatorName  string `json:"operatorName"`
	ClientName    string `json:"clientName"`
	Month         string `json:"month"`
	Policy        string `json:"policy"`
	InsertedCount int    `json:"insertedCount"`
	PrunedCount   int    `json:"prunedCount"`
	Status        string `json:"status"`
}
