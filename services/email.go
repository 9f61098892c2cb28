package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// EmailService sends transactional mail through the Resend API.
type EmailService struct {
	apiKey     string
	fromEmail  string
	appBaseURL string
}

func NewEmailService(apiKey, fromEmail, appBaseURL string) *EmailService {
	if fromEmail == "" {
		fromEmail = "ByggBroker <notiser@byggbroker.se>"
	}
	if appBaseURL == "" {
		appBaseURL = "http://localhost:3000"
	}
	return &EmailService{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		appBaseURL: appBaseURL,
	}
}

// Configured reports whether the service has an API key. Endpoints that
// depend on notifications treat a missing key as a configuration error.
func (s *EmailService) Configured() bool {
	return s.apiKey != ""
}

// SendAccessRequested notifies a quote's uploader that someone wants to
// see their quote.
func (s *EmailService) SendAccessRequested(to, requesterEmail, contractorType, projectTitle, projectID string) error {
	projectURL := fmt.Sprintf("%s/projects/%s", s.appBaseURL, projectID)

	htmlBody := fmt.Sprintf(`
<p>Hi!</p>
<p>The user %s has requested access to the <strong>%s</strong> quote in the project <strong>%s</strong>.</p>
<p>Log in to the <a href="%s">project page</a> to review and approve the request.</p>
<p>Best regards,</p>
<p>The ByggBroker platform</p>
`, requesterEmail, contractorType, projectTitle, projectURL)

	subject := fmt.Sprintf("Quote access requested for %s", projectTitle)
	return s.send(to, subject, htmlBody)
}

// SendAccessGranted notifies a requester that their access request was
// approved.
func (s *EmailService) SendAccessGranted(to, contractorType, projectTitle, projectID string) error {
	projectURL := fmt.Sprintf("%s/projects/%s", s.appBaseURL, projectID)

	htmlBody := fmt.Sprintf(`
<p>Hi!</p>
<p>Your request to view the <strong>%s</strong> quote in the project <strong>%s</strong> has been approved.</p>
<p>You can now see the details and download the file on the <a href="%s">project page</a>.</p>
<p>Best regards,</p>
<p>The ByggBroker platform</p>
`, contractorType, projectTitle, projectURL)

	subject := fmt.Sprintf("Access granted for a quote in %s", projectTitle)
	return s.send(to, subject, htmlBody)
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	if s.apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	payload := map[string]interface{}{
		"from":    s.fromEmail,
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("email API returned status: %d", resp.StatusCode)
	}

	log.Printf("✅ Email sent successfully to %s", to)
	return nil
}
