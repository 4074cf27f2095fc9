// Package importer parses bank statement CSV exports into imported
// transaction records awaiting reconciliation.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hearthbudget/backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Columns of a statement CSV export. The first line is a header and is
// skipped.
const (
	colPostedDate = iota
	colPayee
	colCheckNumber
	colDebit
	colCredit
)

const columnCount = 5

// Parse reads a statement CSV and returns the imported transaction records
// it contains. Records are not persisted, see CreateRecords.
func Parse(f io.Reader, accountID, userID uuid.UUID) ([]models.ImportedTransaction, error) {
	reader := csv.NewReader(f)

	// We can reuse the array in the background to improve performance
	reader.ReuseRecord = true

	// Skip the header line
	_, err := reader.Read()
	if err == io.EOF {
		return []models.ImportedTransaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read the CSV header: %w", err)
	}

	var records []models.ImportedTransaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return csvReadError(reader, fmt.Errorf("could not read line in CSV: %w", err))
		}

		if len(record) < columnCount {
			return csvReadError(reader, fmt.Errorf("expected %d columns, got %d", columnCount, len(record)))
		}

		posted, err := time.Parse("2006-01-02", record[colPostedDate])
		if err != nil {
			return csvReadError(reader, fmt.Errorf("could not parse the posted date: %w", err))
		}

		imported := models.ImportedTransaction{
			AccountID:   accountID,
			UserID:      userID,
			Payee:       strings.TrimSpace(record[colPayee]),
			PostedDate:  posted.In(time.UTC),
			CheckNumber: strings.TrimSpace(record[colCheckNumber]),
		}

		debit := strings.TrimSpace(record[colDebit])
		credit := strings.TrimSpace(record[colCredit])

		if debit != "" && credit != "" {
			return csvReadError(reader, errors.New("both debit and credit are set for the record"))
		} else if debit == "" && credit == "" {
			return csvReadError(reader, errors.New("no amount is set for the record"))
		} else if debit != "" {
			amount, err := decimal.NewFromString(debit)
			if err != nil {
				return csvReadError(reader, errors.New("the debit amount could not be parsed to a decimal"))
			}
			imported.DebitAmount = &amount
		} else {
			amount, err := decimal.NewFromString(credit)
			if err != nil {
				return csvReadError(reader, errors.New("the credit amount could not be parsed to a decimal"))
			}
			imported.CreditAmount = &amount
		}

		amount, _ := imported.SignedParts()
		if amount.IsZero() {
			return csvReadError(reader, errors.New("the amount for a record must not be 0"))
		}

		records = append(records, imported)
	}

	return records, nil
}

// CreateRecords persists parsed records. Records identical to an already
// imported one (same account, posted date, payee, check number and amount)
// are skipped so that re-uploading a statement does not create duplicates.
func CreateRecords(db *gorm.DB, records []models.ImportedTransaction) (created, skipped int, err error) {
	for i := range records {
		record := &records[i]

		q := db.Model(&models.ImportedTransaction{}).
			Where("account_id = ?", record.AccountID).
			Where("posted_date = ?", record.PostedDate).
			Where("payee = ?", record.Payee).
			Where("check_number = ?", record.CheckNumber)

		if record.DebitAmount != nil {
			q = q.Where("debit_amount = ?", *record.DebitAmount)
		} else {
			q = q.Where("credit_amount = ?", *record.CreditAmount)
		}

		var count int64
		err = q.Count(&count).Error
		if err != nil {
			return created, skipped, err
		}

		if count > 0 {
			skipped++
			continue
		}

		err = db.Create(record).Error
		if err != nil {
			return created, skipped, err
		}

		created++
	}

	return created, skipped, nil
}

// csvReadError wraps an error with the line of the input it occurred in.
func csvReadError(r *csv.Reader, err error) ([]models.ImportedTransaction, error) {
	// always use the first field, we are only interested in the line
	line, _ := r.FieldPos(0)

	return nil, fmt.Errorf("error in line %d of the CSV: %w", line, err)
}
