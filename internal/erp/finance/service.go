package finance

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/geliahq/gelia/internal/gateway"
	"github.com/geliahq/gelia/internal/tenantcontext"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound = errors.New("finance: account not found")
	ErrInvalidAccount  = errors.New("finance: account code and name are required")
	// ErrInvalidAmount rejects entries that are not single-sided.
	ErrInvalidAmount = errors.New("finance: exactly one of debit and credit must be positive")
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

// Service manages a tenant's chart of accounts and ledger.
type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	accounts     *gateway.Store[Account, *Account]
	transactions *gateway.Store[Transaction, *Transaction]
}

func New(p Params) *Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("finance.service"),
		genID:        p.GenID,
		accounts:     gateway.NewStore[Account](p.DB, p.Log),
		transactions: gateway.NewStore[Transaction](p.DB, p.Log),
	}
}

// CreateAccountRequest carries the client-settable account fields.
type CreateAccountRequest struct {
	AccountCode     string        `json:"account_code" binding:"required"`
	AccountName     string        `json:"account_name" binding:"required"`
	AccountType     string        `json:"account_type" binding:"required"`
	ParentAccountID *snowflake.ID `json:"parent_account_id"`
	Balance         int64         `json:"balance"`
}

func (s *Service) CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, error) {
	if strings.TrimSpace(req.AccountCode) == "" || strings.TrimSpace(req.AccountName) == "" {
		return nil, ErrInvalidAccount
	}

	account := &Account{
		ID:              s.genID.Generate(),
		AccountCode:     strings.TrimSpace(req.AccountCode),
		AccountName:     strings.TrimSpace(req.AccountName),
		AccountType:     strings.TrimSpace(req.AccountType),
		ParentAccountID: req.ParentAccountID,
		Balance:         req.Balance,
		IsActive:        true,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Service) ListAccounts(ctx context.Context, q gateway.Query) ([]Account, error) {
	if q.OrderBy == "" {
		q.OrderBy = "account_code"
	}
	return s.accounts.List(ctx, q)
}

func (s *Service) GetAccount(ctx context.Context, id snowflake.ID) (*Account, error) {
	account, err := s.accounts.Get(ctx, id)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	return account, err
}

// CreateTransactionRequest carries the client-settable ledger fields.
// Amounts are in cents.
type CreateTransactionRequest struct {
	AccountID       snowflake.ID `json:"account_id" binding:"required"`
	Date            time.Time    `json:"date"`
	Description     string       `json:"description"`
	DebitAmount     int64        `json:"debit_amount"`
	CreditAmount    int64        `json:"credit_amount"`
	Category        string       `json:"category"`
	ReferenceNumber string       `json:"reference_number"`
}

// CreateTransaction appends a ledger entry and moves the account balance
// in the same database transaction. Transaction numbers are globally
// unique and time-ordered.
func (s *Service) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*Transaction, error) {
	if (req.DebitAmount <= 0) == (req.CreditAmount <= 0) || req.DebitAmount < 0 || req.CreditAmount < 0 {
		return nil, ErrInvalidAmount
	}

	principal, ok := tenantcontext.PrincipalFromContext(ctx)
	if !ok {
		return nil, gateway.ErrUnauthorized
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	var entry *Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the account row for the whole posting so two concurrent
		// entries cannot both read the same balance and lose one update.
		accounts := s.accounts.WithDB(tx)
		account, err := accounts.GetForUpdate(ctx, req.AccountID)
		if err != nil {
			if errors.Is(err, gateway.ErrNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		balanceAfter := account.Balance + req.DebitAmount - req.CreditAmount
		entry = &Transaction{
			ID:                s.genID.Generate(),
			TransactionNumber: "TXN-" + ulid.Make().String(),
			Date:              date,
			AccountID:         account.ID,
			Description:       req.Description,
			DebitAmount:       req.DebitAmount,
			CreditAmount:      req.CreditAmount,
			BalanceAfter:      balanceAfter,
			Category:          req.Category,
			ReferenceNumber:   req.ReferenceNumber,
			CreatedBy:         principal.UserID,
			CreatedAt:         time.Now().UTC(),
		}
		if err := s.transactions.WithDB(tx).Create(ctx, entry); err != nil {
			return err
		}

		if _, err := accounts.Updates(ctx, account.ID, map[string]any{"balance": balanceAfter}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("transaction recorded",
		zap.String("tenant_id", principal.TenantID.String()),
		zap.String("transaction_number", entry.TransactionNumber),
	)
	return entry, nil
}

func (s *Service) ListTransactions(ctx context.Context, q gateway.Query) ([]Transaction, error) {
	if q.OrderBy == "" {
		q.OrderBy = "date DESC"
	}
	return s.transactions.List(ctx, q)
}
