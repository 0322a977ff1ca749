package finance

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/geliahq/gelia/internal/gateway"
	"github.com/geliahq/gelia/internal/tenantcontext"
	"github.com/geliahq/gelia/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *snowflake.Node) {
	t.Helper()
	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&Account{}, &Transaction{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return New(Params{DB: conn, Log: zap.NewNop(), GenID: node}), node
}

func principalCtx(tenantID snowflake.ID) context.Context {
	return tenantcontext.WithPrincipal(context.Background(), tenantcontext.Principal{
		UserID:   snowflake.ID(7),
		TenantID: tenantID,
		Subject:  "books",
		Role:     "user",
	})
}

func TestCreateAccountValidation(t *testing.T) {
	svc, node := newTestService(t)
	ctx := principalCtx(node.Generate())

	if _, err := svc.CreateAccount(ctx, CreateAccountRequest{AccountName: "Cash"}); !errors.Is(err, ErrInvalidAccount) {
		t.Fatalf("expected ErrInvalidAccount, got %v", err)
	}
	if _, err := svc.CreateAccount(ctx, CreateAccountRequest{AccountCode: "1000"}); !errors.Is(err, ErrInvalidAccount) {
		t.Fatalf("expected ErrInvalidAccount, got %v", err)
	}
}

func TestCreateTransactionMovesBalance(t *testing.T) {
	svc, node := newTestService(t)
	ctx := principalCtx(node.Generate())

	account, err := svc.CreateAccount(ctx, CreateAccountRequest{
		AccountCode: "1000",
		AccountName: "Cash",
		AccountType: "asset",
		Balance:     50000,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	debit, err := svc.CreateTransaction(ctx, CreateTransactionRequest{
		AccountID:   account.ID,
		Description: "invoice paid",
		DebitAmount: 25000,
	})
	if err != nil {
		t.Fatalf("create debit: %v", err)
	}
	if debit.BalanceAfter != 75000 {
		t.Fatalf("balance after debit = %d, want 75000", debit.BalanceAfter)
	}
	if !strings.HasPrefix(debit.TransactionNumber, "TXN-") {
		t.Fatalf("transaction number = %q", debit.TransactionNumber)
	}
	if debit.CreatedBy != snowflake.ID(7) {
		t.Fatalf("created_by = %v", debit.CreatedBy)
	}

	credit, err := svc.CreateTransaction(ctx, CreateTransactionRequest{
		AccountID:    account.ID,
		CreditAmount: 10000,
	})
	if err != nil {
		t.Fatalf("create credit: %v", err)
	}
	if credit.BalanceAfter != 65000 {
		t.Fatalf("balance after credit = %d, want 65000", credit.BalanceAfter)
	}

	refreshed, err := svc.GetAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if refreshed.Balance != 65000 {
		t.Fatalf("account balance = %d, want 65000", refreshed.Balance)
	}

	if debit.TransactionNumber == credit.TransactionNumber {
		t.Fatalf("transaction numbers must be unique")
	}
}

func TestConcurrentTransactionsAccumulate(t *testing.T) {
	svc, node := newTestService(t)
	ctx := principalCtx(node.Generate())

	account, err := svc.CreateAccount(ctx, CreateAccountRequest{
		AccountCode: "1000",
		AccountName: "Cash",
		AccountType: "asset",
		Balance:     100000,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	// The account row is locked for each posting, so parallel entries
	// serialize and no balance update is lost.
	const postings = 4
	var wg sync.WaitGroup
	errs := make(chan error, postings)
	for i := 0; i < postings; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateTransaction(ctx, CreateTransactionRequest{
				AccountID:   account.ID,
				DebitAmount: 1000,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("create transaction: %v", err)
		}
	}

	refreshed, err := svc.GetAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if refreshed.Balance != 104000 {
		t.Fatalf("balance = %d, want 104000", refreshed.Balance)
	}

	entries, err := svc.ListTransactions(ctx, gateway.Query{})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(entries) != postings {
		t.Fatalf("expected %d entries, got %d", postings, len(entries))
	}
	seen := make(map[int64]bool, postings)
	for _, entry := range entries {
		if seen[entry.BalanceAfter] {
			t.Fatalf("duplicate balance_after %d, an update was lost", entry.BalanceAfter)
		}
		seen[entry.BalanceAfter] = true
	}
}

func TestCreateTransactionSingleSided(t *testing.T) {
	svc, node := newTestService(t)
	ctx := principalCtx(node.Generate())

	account, err := svc.CreateAccount(ctx, CreateAccountRequest{
		AccountCode: "1000",
		AccountName: "Cash",
		AccountType: "asset",
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	cases := []CreateTransactionRequest{
		{AccountID: account.ID},
		{AccountID: account.ID, DebitAmount: 100, CreditAmount: 100},
		{AccountID: account.ID, DebitAmount: -100},
		{AccountID: account.ID, CreditAmount: -100},
	}
	for _, req := range cases {
		if _, err := svc.CreateTransaction(ctx, req); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount for %+v, got %v", req, err)
		}
	}
}

func TestCreateTransactionForeignAccount(t *testing.T) {
	svc, node := newTestService(t)
	owner := principalCtx(node.Generate())
	intruder := principalCtx(node.Generate())

	account, err := svc.CreateAccount(owner, CreateAccountRequest{
		AccountCode: "1000",
		AccountName: "Cash",
		AccountType: "asset",
		Balance:     100000,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	// Posting against another tenant's account reads as a missing
	// account, and the balance must not move.
	if _, err := svc.CreateTransaction(intruder, CreateTransactionRequest{
		AccountID:   account.ID,
		DebitAmount: 100,
	}); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	refreshed, err := svc.GetAccount(owner, account.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if refreshed.Balance != 100000 {
		t.Fatalf("balance changed to %d", refreshed.Balance)
	}
}

func TestCreateTransactionRequiresPrincipal(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.CreateTransaction(context.Background(), CreateTransactionRequest{
		AccountID:   snowflake.ID(1),
		DebitAmount: 100,
	}); !errors.Is(err, gateway.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
