package mail

type ConfirmationEmailData struct {
	Name         string
	Service      string
	CustomID     string
	AmountRupees string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	OpsEmail string
}
