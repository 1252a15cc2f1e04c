package usecase

type Email struct {
	From    string
	To      []string
	CC      []string
	BCC     []string
	Subject string
	Body    string
}
