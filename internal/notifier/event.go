// Package notifier carries outbound email delivery over the message
// broker. The service publishes fire-and-forget; a background consumer
// performs the actual delivery.
package notifier

// emailQueueName is the durable queue shared by publisher and consumer.
const emailQueueName = "email.send"

// EmailRequested is the payload published for every outbound email.
type EmailRequested struct {
	To          string `json:"to"`
	Subject     string `json:"subject"`
	HTMLBody    string `json:"html_body"`
	RequestedAt string `json:"requested_at"`
}
