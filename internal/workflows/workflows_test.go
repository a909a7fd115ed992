package workflows

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/CamreshJames/fe-email-client/internal/audit"
	"github.com/CamreshJames/fe-email-client/internal/configs"
	kerrors "github.com/CamreshJames/fe-email-client/internal/errors"
	"github.com/CamreshJames/fe-email-client/internal/mailer"
	"github.com/CamreshJames/fe-email-client/internal/masterkey"
)

const campaignXML = `<?xml version="1.0" encoding="UTF-8"?>
<emailConfiguration type="CLEAR-TEXT">
    <smtpSettings>
        <host>smtp.example.com</host>
        <port>587</port>
        <username>alice@example.com</username>
        <password>s3cret</password>
        <useSSL>false</useSSL>
        <useTLS>true</useTLS>
    </smtpSettings>
    <recipients>
        <recipient><name>Ann Smith</name><email>ann@example.com</email><type>customer</type><active>true</active></recipient>
        <recipient><name>Bob Jones</name><email>bob@example.com</email><type>customer</type><active>false</active></recipient>
        <recipient><name></name><email>cid@example.com</email><type>trial</type><active>true</active></recipient>
    </recipients>
    <templates>
        <template><name>welcome</name><path>welcome.html</path><subject>Welcome!</subject><active>true</active></template>
        <template><name>trial-expiration</name><path>trial.html</path><subject>Trial ending</subject><active>true</active></template>
        <template><name>product-update</name><path>update.md</path><subject>News</subject><active>false</active></template>
    </templates>
</emailConfiguration>
`

// recordingTransport captures messages and fails addresses listed in fail.
type recordingTransport struct {
	mu   sync.Mutex
	fail map[string]bool
	sent []mailer.Message
}

func (r *recordingTransport) Send(ctx context.Context, msg mailer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail[msg.To] {
		return errors.New("550 mailbox unavailable")
	}
	r.sent = append(r.sent, msg)
	return nil
}

// setupCampaign writes the document and template bodies into a temp dir.
func setupCampaign(t *testing.T) *configs.Settings {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"email-config.xml": campaignXML,
		"welcome.html":     "<p>Hello [First Name]</p>",
		"trial.html":       "<p>[First Name]: [Number] tickets in [Time]</p>",
		"update.md":        "# News",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	settings, err := configs.ResolveSettings(filepath.Join(dir, "email-config.xml"), "")
	if err != nil {
		t.Fatalf("ResolveSettings failed: %v", err)
	}
	return settings
}

func storeOptions(settings *configs.Settings, password string) StoreOptions {
	return StoreOptions{Settings: settings, Provider: masterkey.Static(password)}
}

func TestSend(t *testing.T) {
	settings := setupCampaign(t)
	transport := &recordingTransport{}

	var announced []string
	result, err := Send(context.Background(), SendOptions{
		StoreOptions: storeOptions(settings, "M"),
		Transport:    transport,
		OnTemplate:   func(name string) { announced = append(announced, name) },
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if !result.Migrated {
		t.Error("Expected first send to migrate the document")
	}
	if result.Recipients != 2 {
		t.Errorf("Expected 2 active recipients, got %d", result.Recipients)
	}
	if len(result.Templates) != 2 || result.Total.Sent != 4 || result.Total.Failed != 0 {
		t.Errorf("Unexpected result: %+v", result)
	}
	if strings.Join(announced, ",") != "welcome,trial-expiration" {
		t.Errorf("Unexpected template order: %v", announced)
	}

	if len(transport.sent) != 4 {
		t.Fatalf("Expected 4 messages, got %d", len(transport.sent))
	}
	first := transport.sent[0]
	if first.From != "alice@example.com" || first.To != "ann@example.com" || first.HTML != "<p>Hello Ann</p>" {
		t.Errorf("Unexpected first message: %+v", first)
	}
	if transport.sent[1].HTML != "<p>Hello Valued Customer</p>" {
		t.Errorf("Expected default first name, got %q", transport.sent[1].HTML)
	}
	if transport.sent[2].HTML != "<p>Ann: 150 tickets in 3.2 hours</p>" {
		t.Errorf("Unexpected trial body: %q", transport.sent[2].HTML)
	}

	entries, err := audit.ReadEntries(settings.AuditPath)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 3 || entries[0].Operation != audit.OpMigrate || entries[1].Operation != audit.OpSend {
		t.Fatalf("Unexpected audit entries: %+v", entries)
	}
	if entries[1].Template != "welcome" || entries[1].Sent != 2 {
		t.Errorf("Unexpected send entry: %+v", entries[1])
	}

	data, _ := os.ReadFile(settings.AuditPath)
	if strings.Contains(string(data), "s3cret") {
		t.Error("Audit log leaks the SMTP secret")
	}
}

func TestSendCountsFailures(t *testing.T) {
	settings := setupCampaign(t)
	transport := &recordingTransport{fail: map[string]bool{"cid@example.com": true}}

	result, err := Send(context.Background(), SendOptions{
		StoreOptions: storeOptions(settings, "M"),
		Transport:    transport,
		RetryStep:    1,
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if result.Total.Sent != 2 || result.Total.Failed != 2 {
		t.Errorf("Expected 2 sent and 2 failed, got %+v", result.Total)
	}
	for _, f := range result.Total.Failures {
		if f.Email != "cid@example.com" || !errors.Is(f.Err, kerrors.ErrSendFailed) {
			t.Errorf("Unexpected failure: %+v", f)
		}
	}
}

func TestSendSkipsInvalidAddress(t *testing.T) {
	settings := setupCampaign(t)
	data, err := os.ReadFile(settings.ConfigPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	data = []byte(strings.Replace(string(data), "cid@example.com", "cid at example", 1))
	if err := os.WriteFile(settings.ConfigPath, data, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	transport := &recordingTransport{}
	result, err := Send(context.Background(), SendOptions{
		StoreOptions: storeOptions(settings, "M"),
		Transport:    transport,
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if result.Total.Sent != 2 || result.Total.Failed != 2 {
		t.Errorf("Expected 2 sent and 2 failed, got %+v", result.Total)
	}
	for _, f := range result.Total.Failures {
		if !errors.Is(f.Err, kerrors.ErrInvalidAddress) {
			t.Errorf("Expected ErrInvalidAddress, got %+v", f)
		}
	}
	for _, msg := range transport.sent {
		if msg.To == "cid at example" {
			t.Error("Malformed address reached the transport")
		}
	}
}

func TestSendMissingTemplate(t *testing.T) {
	settings := setupCampaign(t)
	if err := os.Remove(filepath.Join(settings.TemplatesDir, "trial.html")); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	result, err := Send(context.Background(), SendOptions{
		StoreOptions: storeOptions(settings, "M"),
		Transport:    &recordingTransport{},
	})
	if !errors.Is(err, kerrors.ErrTemplateNotFound) {
		t.Fatalf("Expected ErrTemplateNotFound, got %v", err)
	}
	if result == nil || len(result.Templates) != 1 {
		t.Errorf("Expected the welcome report before the failure, got %+v", result)
	}
}

func TestSendWrongPassword(t *testing.T) {
	settings := setupCampaign(t)
	if _, err := Encrypt(context.Background(), EncryptOptions{StoreOptions: storeOptions(settings, "M")}); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	transport := &recordingTransport{}
	_, err := Send(context.Background(), SendOptions{
		StoreOptions: storeOptions(settings, "N"),
		Transport:    transport,
	})
	if !errors.Is(err, kerrors.ErrAuthenticationFailed) {
		t.Fatalf("Expected ErrAuthenticationFailed, got %v", err)
	}
	if len(transport.sent) != 0 {
		t.Error("No message may be sent with a wrong password")
	}
}

func TestStatus(t *testing.T) {
	settings := setupCampaign(t)

	before, err := Status(context.Background(), StatusOptions{Settings: settings})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if before.Mode != configs.ModeCleartext || !before.NeedsMigration || before.HintTimestamp != "" {
		t.Errorf("Unexpected cleartext status: %+v", before)
	}
	if len(before.Unprotected) != 2 || len(before.Protected) != 0 {
		t.Errorf("Expected both fields unprotected, got %+v", before)
	}
	if len(before.InvalidAddresses) != 0 {
		t.Errorf("Expected no invalid addresses, got %v", before.InvalidAddresses)
	}
	if before.ActiveRecipients != 2 || before.TotalRecipients != 3 || before.ActiveTemplates != 2 || before.TotalTemplates != 3 {
		t.Errorf("Unexpected counts: %+v", before)
	}

	if _, err := Encrypt(context.Background(), EncryptOptions{StoreOptions: storeOptions(settings, "M")}); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	after, err := Status(context.Background(), StatusOptions{Settings: settings})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if after.Mode != configs.ModeEncrypted || after.NeedsMigration || after.HintTimestamp == "" {
		t.Errorf("Unexpected encrypted status: %+v", after)
	}
	if strings.Join(after.Protected, ",") != "username,password" || len(after.Unprotected) != 0 {
		t.Errorf("Expected both fields protected, got %+v", after)
	}
}

func TestStatusMissingDocument(t *testing.T) {
	settings, err := configs.ResolveSettings(filepath.Join(t.TempDir(), "none.xml"), "")
	if err != nil {
		t.Fatalf("ResolveSettings failed: %v", err)
	}
	if _, err := Status(context.Background(), StatusOptions{Settings: settings}); !errors.Is(err, kerrors.ErrConfigNotFound) {
		t.Fatalf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestEncrypt(t *testing.T) {
	settings := setupCampaign(t)

	var generated string
	opts := EncryptOptions{StoreOptions: StoreOptions{
		Settings:            settings,
		Provider:            masterkey.Static(nil),
		OnGeneratedPassword: func(p string) { generated = p },
	}}

	first, err := Encrypt(context.Background(), opts)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if !first.Migrated || !first.GeneratedPassword || generated == "" {
		t.Errorf("Expected migration with a generated password, got %+v", first)
	}
	if strings.Join(first.Encrypted, ",") != "username,password" {
		t.Errorf("Unexpected encrypted fields: %v", first.Encrypted)
	}

	second, err := Encrypt(context.Background(), EncryptOptions{StoreOptions: storeOptions(settings, generated)})
	if err != nil {
		t.Fatalf("Second Encrypt failed: %v", err)
	}
	if second.Migrated || second.Mode != configs.ModeEncrypted {
		t.Errorf("Expected no second migration, got %+v", second)
	}
}

func TestShow(t *testing.T) {
	settings := setupCampaign(t)

	result, err := Show(context.Background(), ShowOptions{StoreOptions: storeOptions(settings, "M")})
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if result.Identity != "alice@example.com" || result.Secret != "****et" {
		t.Errorf("Unexpected credentials: %q / %q", result.Identity, result.Secret)
	}
	if result.Host != "smtp.example.com" || result.Port != "587" || !result.UseTLS {
		t.Errorf("Unexpected settings: %+v", result)
	}
	if len(result.Recipients) != 2 || len(result.Templates) != 2 {
		t.Errorf("Unexpected active lists: %+v", result)
	}
}

func TestVerify(t *testing.T) {
	settings := setupCampaign(t)

	if _, err := Verify(context.Background(), VerifyOptions{StoreOptions: storeOptions(settings, "M")}); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	_, err := Verify(context.Background(), VerifyOptions{StoreOptions: storeOptions(settings, "wrong")})
	if !errors.Is(err, kerrors.ErrAuthenticationFailed) {
		t.Fatalf("Expected ErrAuthenticationFailed, got %v", err)
	}

	entries, _ := audit.ReadEntries(settings.AuditPath)
	verifies := 0
	for _, e := range entries {
		if e.Operation == audit.OpVerify {
			verifies++
		}
	}
	if verifies != 1 {
		t.Errorf("Expected one verify entry, got %d", verifies)
	}
}

func TestVerifyReportsCleartextCredentials(t *testing.T) {
	settings := setupCampaign(t)
	if _, err := Encrypt(context.Background(), EncryptOptions{StoreOptions: storeOptions(settings, "M")}); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	data, err := os.ReadFile(settings.ConfigPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	content := string(data)
	start := strings.Index(content, "<username>") + len("<username>")
	end := strings.Index(content, "</username>")
	content = content[:start] + "alice@example.com" + content[end:]
	if err := os.WriteFile(settings.ConfigPath, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	result, err := Verify(context.Background(), VerifyOptions{StoreOptions: storeOptions(settings, "M")})
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if len(result.Unprotected) != 1 || result.Unprotected[0] != "username" {
		t.Errorf("Expected [username] unprotected, got %v", result.Unprotected)
	}
}

func TestWorkflowsRequireSettings(t *testing.T) {
	ctx := context.Background()
	if _, err := Verify(ctx, VerifyOptions{}); err == nil {
		t.Error("Expected error without settings")
	}
	if _, err := Status(ctx, StatusOptions{}); err == nil {
		t.Error("Expected error without settings")
	}
}
