package command

import "time"

// API payloads as seen by the CLI. Table tags drive the generic renderer.

type connectRequest struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	TimeoutMS int64  `json:"timeout_ms,omitempty"`
}

type connectResult struct {
	ID      string `json:"id" table:"ID"`
	Success bool   `json:"success" table:"SUCCESS"`
}

type sendRequest struct {
	Payload  string `json:"payload"`
	Encoding string `json:"encoding,omitempty"`
}

type resetResult struct {
	ClearedCount int    `json:"cleared_count" table:"CLEARED"`
	Message      string `json:"message" table:"MESSAGE"`
}

type statusResult struct {
	Count       int                `json:"count"`
	IDs         []string           `json:"ids"`
	Platform    string             `json:"platform"`
	Connections []connectionResult `json:"connections,omitempty"`
}

type connectionResult struct {
	ID         string     `json:"id" table:"ID"`
	Host       string     `json:"host" table:"HOST"`
	Port       int        `json:"port" table:"PORT"`
	CreatedAt  time.Time  `json:"created_at" table:"CREATED"`
	LastSendAt *time.Time `json:"last_send_at,omitempty" table:"LAST SEND"`
	BytesSent  int64      `json:"bytes_sent" table:"BYTES SENT"`
}

type healthResult struct {
	Status      string `json:"status" table:"STATUS"`
	Version     string `json:"version" table:"VERSION"`
	Connections int    `json:"connections" table:"CONNECTIONS"`
	Time        string `json:"time" table:"TIME"`
}

// printResult summarises a print job.
type printResult struct {
	ID        string `json:"id" table:"ID"`
	Host      string `json:"host" table:"HOST"`
	Port      int    `json:"port" table:"PORT"`
	BytesSent int    `json:"bytes_sent" table:"BYTES"`
}
