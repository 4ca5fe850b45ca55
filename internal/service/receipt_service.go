package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/monedero/monedero-backend/internal/domain"
	"github.com/monedero/monedero-backend/internal/repository/storage"
)

const (
	MaxReceiptSize   = 5 * 1024 * 1024
	ReceiptMaxWidth  = 1200
	ReceiptJPEGQuality = 85
	receiptURLExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge        = errors.New("file too large, maximum size is 5MB")
	ErrReceiptInvalidFormat   = errors.New("invalid format, supported: JPEG, PNG, WebP")
	ErrReceiptInvalidData     = errors.New("invalid image data")
	ErrReceiptsNotConfigured  = errors.New("receipt storage not configured")
)

var receiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ReceiptService stores receipt images for incomes and expenses.
// Images are downscaled and re-encoded as JPEG before upload; records
// keep only the object key.
type ReceiptService struct {
	store   domain.Store
	objects storage.ObjectStore
}

// NewReceiptService creates a ReceiptService. A nil object store
// disables receipts.
func NewReceiptService(store domain.Store, objects storage.ObjectStore) *ReceiptService {
	return &ReceiptService{store: store, objects: objects}
}

// Enabled reports whether an object store is configured.
func (s *ReceiptService) Enabled() bool {
	return s != nil && s.objects != nil
}

// AttachToIncome uploads a receipt image and links it to the income,
// replacing any previous one.
func (s *ReceiptService) AttachToIncome(ctx context.Context, userID, incomeID uuid.UUID, data []byte, filename string) (*domain.Income, error) {
	if !s.Enabled() {
		return nil, ErrReceiptsNotConfigured
	}
	income, err := s.store.Repos().Incomes.GetByID(ctx, userID, incomeID)
	if err != nil {
		return nil, err
	}

	key, err := s.upload(ctx, userID, "income", incomeID, data, filename)
	if err != nil {
		return nil, err
	}

	oldKey := income.ReceiptKey
	income.ReceiptKey = &key

	var updated *domain.Income
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		updated, err = repos.Incomes.Update(ctx, income)
		return err
	})
	if err != nil {
		s.deleteQuietly(ctx, key)
		return nil, err
	}
	if oldKey != nil {
		s.deleteQuietly(ctx, *oldKey)
	}
	return updated, nil
}

// AttachToExpense uploads a receipt image and links it to the expense,
// replacing any previous one.
func (s *ReceiptService) AttachToExpense(ctx context.Context, userID, expenseID uuid.UUID, data []byte, filename string) (*domain.Expense, error) {
	if !s.Enabled() {
		return nil, ErrReceiptsNotConfigured
	}
	expense, err := s.store.Repos().Expenses.GetByID(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	key, err := s.upload(ctx, userID, "expense", expenseID, data, filename)
	if err != nil {
		return nil, err
	}

	oldKey := expense.ReceiptKey
	expense.ReceiptKey = &key

	var updated *domain.Expense
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		updated, err = repos.Expenses.Update(ctx, expense)
		return err
	})
	if err != nil {
		s.deleteQuietly(ctx, key)
		return nil, err
	}
	if oldKey != nil {
		s.deleteQuietly(ctx, *oldKey)
	}
	return updated, nil
}

// IncomeReceiptURL returns a short-lived URL for the income's receipt.
func (s *ReceiptService) IncomeReceiptURL(ctx context.Context, userID, incomeID uuid.UUID) (string, error) {
	if !s.Enabled() {
		return "", ErrReceiptsNotConfigured
	}
	income, err := s.store.Repos().Incomes.GetByID(ctx, userID, incomeID)
	if err != nil {
		return "", err
	}
	if !income.HasReceipt() {
		return "", domain.ErrReceiptNotFound
	}
	return s.objects.PresignedURL(ctx, *income.ReceiptKey, receiptURLExpiry)
}

// ExpenseReceiptURL returns a short-lived URL for the expense's
// receipt.
func (s *ReceiptService) ExpenseReceiptURL(ctx context.Context, userID, expenseID uuid.UUID) (string, error) {
	if !s.Enabled() {
		return "", ErrReceiptsNotConfigured
	}
	expense, err := s.store.Repos().Expenses.GetByID(ctx, userID, expenseID)
	if err != nil {
		return "", err
	}
	if !expense.HasReceipt() {
		return "", domain.ErrReceiptNotFound
	}
	return s.objects.PresignedURL(ctx, *expense.ReceiptKey, receiptURLExpiry)
}

// upload validates, downscales and stores a receipt image, returning
// the object key.
func (s *ReceiptService) upload(ctx context.Context, userID uuid.UUID, entityKind string, entityID uuid.UUID, data []byte, filename string) (string, error) {
	if len(data) > MaxReceiptSize {
		return "", ErrReceiptTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := receiptExtensions[ext]; !ok {
		return "", ErrReceiptInvalidFormat
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", ErrReceiptInvalidData
	}

	if img.Bounds().Dx() > ReceiptMaxWidth {
		img = imaging.Resize(img, ReceiptMaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: ReceiptJPEGQuality}); err != nil {
		return "", fmt.Errorf("failed to encode receipt: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s/%s.jpg", userID, entityKind, entityID, uuid.New())
	if _, err := s.objects.Upload(ctx, key, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
		return "", fmt.Errorf("failed to upload receipt: %w", err)
	}
	return key, nil
}

func (s *ReceiptService) deleteQuietly(ctx context.Context, key string) {
	if err := s.objects.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to delete receipt object")
	}
}
