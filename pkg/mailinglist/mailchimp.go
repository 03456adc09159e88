package mailinglist

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sefazor/crowdfund-backend/internal/config"
)

// MailingListService harici mailing list kaydını günceller.
// Her zaman transaction dışında çağrılır; hata sadece loglanmak
// üzere caller'a döner, hiçbir commit'i geri aldırmaz.
type MailingListService struct {
	apiKey     string
	audienceID string
	datacenter string
	httpClient *http.Client
}

func NewMailingListService(cfg *config.Config) *MailingListService {
	return &MailingListService{
		apiKey:     cfg.Mailchimp.APIKey,
		audienceID: cfg.Mailchimp.AudienceID,
		datacenter: cfg.Mailchimp.Datacenter,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type memberPayload struct {
	EmailAddress string            `json:"email_address"`
	StatusIfNew  string            `json:"status_if_new"`
	MergeFields  map[string]string `json:"merge_fields"`
	Tags         []string          `json:"tags,omitempty"`
}

// SyncMember kullanıcının audience kaydını upsert eder.
func (s *MailingListService) SyncMember(email, firstName, lastName string, tags []string) error {
	if s.apiKey == "" {
		return nil // lokal ortamda devre dışı
	}

	payload := memberPayload{
		EmailAddress: email,
		StatusIfNew:  "subscribed",
		MergeFields: map[string]string{
			"FNAME": firstName,
			"LNAME": lastName,
		},
		Tags: tags,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("https://%s.api.mailchimp.com/3.0/lists/%s/members/%s",
		s.datacenter, s.audienceID, subscriberHash(email))

	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.SetBasicAuth("anystring", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mailchimp upsert failed with status %d", resp.StatusCode)
	}

	return nil
}

// Mailchimp member id'si lowercase email'in md5'idir
func subscriberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(email)))
	return hex.EncodeToString(sum[:])
}
