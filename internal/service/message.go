package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/GTDGit/inventory_api/internal/models"
)

// ExpiredLayout formats the {expired} placeholder.
const ExpiredLayout = "02/01/2006 15:04"

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// RenderAccountMessage fills a variant template with the credentials of
// the user's seat, formatting {expired} in loc. Unknown placeholders, and
// profile placeholders of a user without a profile, are left as written.
// An empty template renders the bare email and password.
func RenderAccountMessage(template string, account *models.ProductAccount, user *models.ProductAccountUser, loc *time.Location) string {
	var email, expired string
	if account.Email != nil {
		email = account.Email.Email
	}
	if account.BatchEndDate != nil {
		expired = account.BatchEndDate.In(loc).Format(ExpiredLayout)
	}

	if strings.TrimSpace(template) == "" {
		return fmt.Sprintf("Email: %s\nPassword: %s", email, account.AccountPassword)
	}

	values := map[string]string{
		"name":     user.Name,
		"email":    email,
		"password": account.AccountPassword,
		"pass":     account.AccountPassword,
		"expired":  expired,
	}
	if user.AccountProfile != nil {
		values["profile"] = *user.AccountProfile
		values["profil"] = *user.AccountProfile
	}
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		if v, ok := values[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

// Messenger renders customer messages for sold seats.
type Messenger struct {
	transactions *TransactionService
	users        *ProductAccountUserService
	loc          *time.Location
}

// NewMessenger constructs a Messenger that writes dates in loc.
func NewMessenger(transactions *TransactionService, users *ProductAccountUserService, loc *time.Location) *Messenger {
	if loc == nil {
		loc = time.UTC
	}
	return &Messenger{transactions: transactions, users: users, loc: loc}
}

// ForTransaction renders the message for the seat a transaction sold.
func (m *Messenger) ForTransaction(ctx context.Context, id int) (string, error) {
	trx, err := m.transactions.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return m.ForAccountUser(ctx, trx.ProductAccountUserID)
}

// ForAccountUser renders the message for an account user.
func (m *Messenger) ForAccountUser(ctx context.Context, id int) (string, error) {
	user, err := m.users.Get(ctx, id)
	if err != nil {
		return "", err
	}
	var template string
	if user.ProductVariant != nil {
		template = user.ProductVariant.Template
	}
	account := user.ProductAccount
	if account == nil {
		account = &models.ProductAccount{}
	}
	return RenderAccountMessage(template, account, user, m.loc), nil
}
