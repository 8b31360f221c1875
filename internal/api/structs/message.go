package structs

// MessageApi is the body of POST /message on relays and users.
type MessageApi struct {
	Message string `json:"message"`
}

// SendMessageApi is the body of POST /sendMessage on users.
type SendMessageApi struct {
	Message           string `json:"message"`
	DestinationUserID int    `json:"destinationUserId"`
}

// SendResultApi answers a successful POST /sendMessage.
type SendResultApi struct {
	MessageID string `json:"messageId"`
	Circuit   []int  `json:"circuit"`
	Entry     int    `json:"entry"`
}
