package vault

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPassphrase = "test-passphrase-12345"

func newTestVault(t *testing.T, passphrase string) *Vault {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vault.age")
	return newWithPath(path, passphrase)
}

func cred(marketplace, token string) Credential {
	return Credential{Marketplace: marketplace, Account: "artist", Token: token}
}

func TestSetAndGet(t *testing.T) {
	v := newTestVault(t, testPassphrase)

	if err := v.Set(cred("vgen", "tok-super-secret")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := v.Get("vgen")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Token != "tok-super-secret" || got.Account != "artist" {
		t.Errorf("Get = %+v, want the stored credential", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("Set should stamp UpdatedAt")
	}
}

func TestSetOverwrite(t *testing.T) {
	v := newTestVault(t, testPassphrase)

	if err := v.Set(cred("vgen", "first")); err != nil {
		t.Fatalf("Set first: %v", err)
	}
	if err := v.Set(cred("vgen", "second")); err != nil {
		t.Fatalf("Set second: %v", err)
	}

	got, err := v.Get("vgen")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Token != "second" {
		t.Errorf("Get token = %q, want %q", got.Token, "second")
	}
}

func TestMarketplaceNameCaseInsensitive(t *testing.T) {
	v := newTestVault(t, testPassphrase)

	if err := v.Set(cred("VGen", "tok")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := v.Get("vgen"); err != nil {
		t.Errorf("Get with lowercased name should find the credential: %v", err)
	}
}

func TestMultipleCredentials(t *testing.T) {
	v := newTestVault(t, testPassphrase)

	tokens := map[string]string{
		"vgen":    "tok-vgen-123",
		"artistr": "tok-artistr-456",
		"skeb":    "tok-skeb-789",
	}

	for m, tok := range tokens {
		if err := v.Set(cred(m, tok)); err != nil {
			t.Fatalf("Set(%q): %v", m, err)
		}
	}

	for m, want := range tokens {
		got, err := v.Get(m)
		if err != nil {
			t.Fatalf("Get(%q): %v", m, err)
		}
		if got.Token != want {
			t.Errorf("Get(%q) token = %q, want %q", m, got.Token, want)
		}
	}
}

func TestGetMissingMarketplace(t *testing.T) {
	v := newTestVault(t, testPassphrase)

	if err := v.Set(cred("vgen", "tok")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, err := v.Get("missing"); err == nil {
		t.Fatal("Get missing marketplace: expected error, got nil")
	}
}

func TestDelete(t *testing.T) {
	v := newTestVault(t, testPassphrase)

	if err := v.Set(cred("vgen", "tok")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := v.Delete("vgen"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := v.Get("vgen"); err == nil {
		t.Fatal("Get after Delete: expected error, got nil")
	}
}

func TestDeleteMissingMarketplace(t *testing.T) {
	v := newTestVault(t, testPassphrase)

	if err := v.Set(cred("vgen", "tok")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := v.Delete("absent"); err == nil {
		t.Fatal("Delete absent marketplace: expected error, got nil")
	}
}

func TestDeleteOnEmptyVault(t *testing.T) {
	v := newTestVault(t, testPassphrase)
	// Delete when vault doesn't exist yet should not error.
	if err := v.Delete("anything"); err != nil {
		t.Fatalf("Delete on empty vault: %v", err)
	}
}

func TestList(t *testing.T) {
	v := newTestVault(t, testPassphrase)

	for _, m := range []string{"skeb", "artistr", "vgen"} {
		if err := v.Set(cred(m, "tok")); err != nil {
			t.Fatalf("Set(%q): %v", m, err)
		}
	}

	got, err := v.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("List len = %d, want 3", len(got))
	}
	// Should be sorted
	if got[0] != "artistr" || got[1] != "skeb" || got[2] != "vgen" {
		t.Errorf("List = %v, want sorted [artistr skeb vgen]", got)
	}
}

func TestListEmptyVault(t *testing.T) {
	v := newTestVault(t, testPassphrase)
	names, err := v.List()
	if err != nil {
		t.Fatalf("List on empty vault: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List on empty vault = %v, want empty", names)
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	data := &vaultData{
		Credentials: map[string]Credential{
			"vgen": {Marketplace: "vgen", Token: "tok-value-1"},
			"skeb": {Marketplace: "skeb", Token: "tok-value-2"},
		},
	}

	encrypted, err := encryptData(data, testPassphrase)
	if err != nil {
		t.Fatalf("encryptData: %v", err)
	}

	// Verify plaintext is not visible in the encrypted output.
	if bytes.Contains(encrypted, []byte("tok-value-1")) {
		t.Error("plaintext token found in encrypted output")
	}
	if bytes.Contains(encrypted, []byte("tok-value-2")) {
		t.Error("plaintext token found in encrypted output")
	}

	decrypted, err := decryptData(encrypted, testPassphrase)
	if err != nil {
		t.Fatalf("decryptData: %v", err)
	}

	if decrypted.Credentials["vgen"].Token != "tok-value-1" {
		t.Errorf("vgen token = %q, want %q", decrypted.Credentials["vgen"].Token, "tok-value-1")
	}
	if decrypted.Credentials["skeb"].Token != "tok-value-2" {
		t.Errorf("skeb token = %q, want %q", decrypted.Credentials["skeb"].Token, "tok-value-2")
	}
}

func TestWrongPassphrase(t *testing.T) {
	v := newTestVault(t, testPassphrase)

	if err := v.Set(cred("vgen", "tok")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Try to read with a different passphrase.
	vWrong := newWithPath(v.path, "wrong-passphrase")
	_, err := vWrong.Get("vgen")
	if err == nil {
		t.Fatal("Get with wrong passphrase: expected error, got nil")
	}
	if !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("Get with wrong passphrase: error = %v, want ErrWrongPassphrase", err)
	}
}

func TestCorruptedVaultFile(t *testing.T) {
	v := newTestVault(t, testPassphrase)

	// Write garbage data to the vault file.
	if err := os.WriteFile(v.path, []byte("this is not a valid age file"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := v.Get("any")
	if err == nil {
		t.Fatal("Get on corrupted vault: expected error, got nil")
	}
	if !errors.Is(err, ErrCorruptedVault) {
		t.Errorf("Get on corrupted vault: error = %v, want ErrCorruptedVault", err)
	}
}

func TestEmptyMarketplaceRejected(t *testing.T) {
	v := newTestVault(t, testPassphrase)
	if err := v.Set(cred("", "tok")); err == nil {
		t.Fatal("Set with empty marketplace: expected error, got nil")
	}
}

func TestEmptyTokenRejected(t *testing.T) {
	v := newTestVault(t, testPassphrase)
	if err := v.Set(cred("vgen", "")); err == nil {
		t.Fatal("Set with empty token: expected error, got nil")
	}
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.age")
	data := []byte("test content")

	if err := atomicWrite(path, data); err != nil {
		t.Fatalf("atomicWrite: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("content mismatch: got %q, want %q", got, data)
	}

	// Check file permissions.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("file mode = %o, want 0600", info.Mode().Perm())
	}

	// Verify no temp files remain.
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".vault-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestExportImport(t *testing.T) {
	src := newTestVault(t, testPassphrase)
	if err := src.Set(cred("vgen", "exported-token")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Export to a buffer.
	var buf bytes.Buffer
	if err := src.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	// Import into a new vault at a different path.
	dst := newTestVault(t, testPassphrase)
	if err := dst.Import(&buf); err != nil {
		t.Fatalf("Import: %v", err)
	}

	// Verify the imported credential is accessible.
	got, err := dst.Get("vgen")
	if err != nil {
		t.Fatalf("Get after Import: %v", err)
	}
	if got.Token != "exported-token" {
		t.Errorf("Get after Import token = %q, want %q", got.Token, "exported-token")
	}
}

func TestImportWrongPassphrase(t *testing.T) {
	src := newTestVault(t, testPassphrase)
	if err := src.Set(cred("vgen", "tok")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var buf bytes.Buffer
	if err := src.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	// Import with wrong passphrase should fail.
	dst := newTestVault(t, "different-passphrase")
	err := dst.Import(&buf)
	if err == nil {
		t.Fatal("Import with wrong passphrase: expected error, got nil")
	}
	if !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("Import with wrong passphrase: error = %v, want ErrWrongPassphrase", err)
	}
}

func TestExportEmptyVault(t *testing.T) {
	v := newTestVault(t, testPassphrase)
	var buf bytes.Buffer
	if err := v.Export(&buf); err == nil {
		t.Fatal("Export empty vault: expected error, got nil")
	}
}

func TestPlaintextNotOnDisk(t *testing.T) {
	v := newTestVault(t, testPassphrase)
	secret := "super-secret-api-token-xyz"
	if err := v.Set(cred("vgen", secret)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	raw, err := os.ReadFile(v.path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if bytes.Contains(raw, []byte(secret)) {
		t.Error("plaintext token found in vault file on disk")
	}
}

func TestFilePermissions(t *testing.T) {
	v := newTestVault(t, testPassphrase)
	if err := v.Set(cred("vgen", "tok")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	info, err := os.Stat(v.path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("vault file mode = %o, want 0600", info.Mode().Perm())
	}
}
