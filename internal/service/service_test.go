package service

import (
	"errors"
	"testing"

	"secondbrain/auth-api/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"secondbrain/auth-api/pkg/security"
)

type sentMail struct {
	To    string
	Token string
}

// fakeMailer records dispatched verification mails instead of sending them
type fakeMailer struct {
	Sent []sentMail
	Fail bool
}

func (m *fakeMailer) SendVerification(sendTo, token string) error {
	if m.Fail {
		return errors.New("smtp relay unreachable")
	}

	m.Sent = append(m.Sent, sentMail{To: sendTo, Token: token})
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second connection would get its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.User{}, model.Session{}, model.Notification{}))

	return db
}

// testArgon keeps hashing cheap so the suite stays fast
func testArgon() *security.ArgonHash {
	return &security.ArgonHash{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func newTestAccounts(t *testing.T) (*Accounts, *fakeMailer) {
	t.Helper()

	mailer := &fakeMailer{}
	return NewAccounts(newTestDB(t), testArgon(), mailer), mailer
}
