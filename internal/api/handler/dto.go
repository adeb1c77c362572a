package handler

// CreateWalletRequest represents a request to provision a wallet
type CreateWalletRequest struct {
	UserID         string `json:"user_id" binding:"required,uuid"`
	InitialBalance int64  `json:"initial_balance" binding:"min=0"`
}

// WalletResponse represents a wallet in API responses
type WalletResponse struct {
	UserID    string `json:"user_id"`
	Balance   int64  `json:"balance"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// MoveFundsRequest represents a deposit or withdrawal request
type MoveFundsRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description,omitempty"`
}

// CreatePaymentRequest represents a direct payment between two users
type CreatePaymentRequest struct {
	Type        string `json:"type" binding:"required,oneof=peer_payment bonus"`
	FromUserID  string `json:"from_user_id" binding:"required,uuid"`
	ToUserID    string `json:"to_user_id" binding:"required,uuid"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description,omitempty"`
}

// JobPaymentRequest represents paying a completed job
type JobPaymentRequest struct {
	EmployerID  string `json:"employer_id" binding:"required,uuid"`
	JobID       string `json:"job_id" binding:"required,uuid"`
	WorkerID    string `json:"worker_id" binding:"required,uuid"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description,omitempty"`
}

// MilestonePaymentRequest represents paying a completed milestone
type MilestonePaymentRequest struct {
	EmployerID  string `json:"employer_id" binding:"required,uuid"`
	MilestoneID string `json:"milestone_id" binding:"required,uuid"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
}

// PayrollItemRequest is one worker's line in a payroll request
type PayrollItemRequest struct {
	WorkerID    string `json:"worker_id" binding:"required,uuid"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description,omitempty"`
}

// PayrollRequest represents a payroll run
type PayrollRequest struct {
	EmployerID string               `json:"employer_id" binding:"required,uuid"`
	PayrollID  string               `json:"payroll_id" binding:"required,uuid"`
	Items      []PayrollItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PayrollItemResponse reports the outcome of one payroll item
type PayrollItemResponse struct {
	WorkerID    string               `json:"worker_id"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// RefundRequest represents refunding a completed transaction
type RefundRequest struct {
	Reason string `json:"reason,omitempty"`
}

// HoldEscrowRequest represents funding the escrow for a job
type HoldEscrowRequest struct {
	EmployerID string `json:"employer_id" binding:"required,uuid"`
}

// ReleaseEscrowRequest represents paying a held escrow out to a payee
type ReleaseEscrowRequest struct {
	ToUserID string `json:"to_user_id" binding:"required,uuid"`
}

// EscrowQuoteResponse represents the amount a job requires in escrow
type EscrowQuoteResponse struct {
	JobID  string `json:"job_id"`
	Amount int64  `json:"amount"`
}

// FeeQuoteRequest represents a fee estimate query
type FeeQuoteRequest struct {
	Type   string `form:"type" binding:"required"`
	Amount int64  `form:"amount" binding:"required,gt=0"`
}

// FeeQuoteResponse represents a fee estimate
type FeeQuoteResponse struct {
	Type   string `json:"type"`
	Amount int64  `json:"amount"`
	Fee    int64  `json:"fee"`
	Net    int64  `json:"net"`
}

// TransactionResponse represents a ledger transaction in API responses
type TransactionResponse struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	FromUserID    string `json:"from_user_id"`
	ToUserID      string `json:"to_user_id"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
	Reference     string `json:"reference"`
	Description   string `json:"description,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
	JobID         string `json:"job_id,omitempty"`
	MilestoneID   string `json:"milestone_id,omitempty"`
	PayrollID     string `json:"payroll_id,omitempty"`
	OriginalID    string `json:"original_transaction_id,omitempty"`
	CreatedAt     string `json:"created_at"`
	CompletedAt   string `json:"completed_at,omitempty"`
	FailedAt      string `json:"failed_at,omitempty"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
