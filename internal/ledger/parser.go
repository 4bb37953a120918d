package ledger

import (
	"bufio"
	"fmt"
	"hash/fnv"
	"io"
	"strconv"
	"strings"
)

// Fixed column positions of the ledger extract. The file is a positional
// dump: every field lives at a byte offset, padded with spaces.
const (
	posAccountCode     = 5
	posAccountCodeEnd  = 8
	posTransactionType = 17
	posTransactionEnd  = 19
	posEntryDate       = 22
	posEntryDateEnd    = 30
	posValueDate       = 32
	posValueDateEnd    = 41
	posDescription     = 42
	posReference       = 72
	posReferenceEnd    = 91
	posCheckNumberEnd  = 82
	posAmount          = 92
	posAmountEnd       = 112
	posEntityID        = 112
	posEntityIDEnd     = 121
	posEntityNameEnd   = 142
	posDebitCredit     = 142
	minLineLength      = 50
)

// LineError records one unparseable line. The parser keeps going; a bad
// line never sinks the rest of the file.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Parse reads a fixed-width ledger extract. Lines shorter than the
// minimum are silently skipped (headers, trailers, blank padding); lines
// long enough to be entries but malformed are reported per line.
func Parse(r io.Reader) ([]*Entry, []LineError, error) {
	var (
		entries []*Entry
		errs    []LineError
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if len(strings.TrimSpace(line)) == 0 || len(line) < minLineLength {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			errs = append(errs, LineError{Line: lineNo, Err: err})
			continue
		}

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading ledger file: %w", err)
	}

	return entries, errs, nil
}

func parseLine(line string) (*Entry, error) {
	rawEntryDate := field(line, posEntryDate, posEntryDateEnd)
	rawValueDate := field(line, posValueDate, posValueDateEnd)

	reference := field(line, posReference, posReferenceEnd)
	checkNumber := field(line, posReference, posCheckNumberEnd)
	taskID := field(line, posCheckNumberEnd, posReferenceEnd)

	amount, err := parseAmount(field(line, posAmount, posAmountEnd), indicator(line))
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		AccountCode:     field(line, posAccountCode, posAccountCodeEnd),
		TransactionType: field(line, posTransactionType, posTransactionEnd),
		EntryDate:       formatDate(rawEntryDate),
		ValueDate:       formatDate(rawValueDate),
		Description:     field(line, posDescription, posReference),
		Reference:       reference,
		CheckNumber:     checkNumber,
		TaskID:          taskID,
		Amount:          amount,
		EntityID:        field(line, posEntityID, posEntityIDEnd),
		EntityName:      field(line, posEntityIDEnd, posEntityNameEnd),
	}

	entry.ID = entryID(entry.AccountCode, rawEntryDate, taskID, amount)

	return entry, nil
}

// field slices [start, end) off the line, tolerating short lines, and
// trims the space padding.
func field(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}

	if end > len(line) {
		end = len(line)
	}

	return strings.TrimSpace(line[start:end])
}

func indicator(line string) byte {
	if posDebitCredit >= len(line) {
		return '+'
	}

	return line[posDebitCredit]
}

// parseAmount reads the zero-padded comma-decimal amount and applies the
// trailing debit/credit sign.
func parseAmount(raw string, debitCredit byte) (float64, error) {
	cleaned := strings.TrimLeft(raw, "0")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	if cleaned == "" || cleaned == "." {
		return 0, nil
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", raw, err)
	}

	if debitCredit == '-' {
		return -v, nil
	}

	return v, nil
}

// formatDate turns YYYYMMDD into YYYY-MM-DD, passing anything else
// through untouched.
func formatDate(raw string) string {
	if len(raw) != 8 {
		return raw
	}

	return raw[:4] + "-" + raw[4:6] + "-" + raw[6:8]
}

// entryID derives a stable identifier from the fields that make a ledger
// line unique. Re-importing the same extract yields the same IDs, which
// is what lets the store ignore duplicates.
func entryID(accountCode, rawDate, taskID string, amount float64) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s_%s_%s_%s", accountCode, rawDate, taskID, strconv.FormatFloat(amount, 'f', -1, 64))

	return fmt.Sprintf("acc_%x", h.Sum64())
}
