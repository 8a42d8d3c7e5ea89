package apijson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/Yus314/MoLe-sub005/internal/accounts"
	"github.com/Yus314/MoLe-sub005/internal/model"
)

type jsonAccount struct {
	Name        string          `json:"aname"`
	NumPostings int             `json:"anumpostings"`
	Balance     []jsonAmount    `json:"aibalance"`
	Data        json.RawMessage `json:"adata"`
}

type jsonAmount struct {
	Commodity string          `json:"acommodity"`
	Quantity  jsonQuantity    `json:"aquantity"`
	Style     json.RawMessage `json:"astyle"`
}

type jsonQuantity struct {
	Mantissa *json.Number `json:"decimalMantissa"`
	Places   int32        `json:"decimalPlaces"`
	Floating *float64     `json:"floatingPoint"`
}

type jsonTransaction struct {
	Index       int64           `json:"tindex"`
	Date        string          `json:"tdate"`
	Description string          `json:"tdescription"`
	Comment     string          `json:"tcomment"`
	SourcePos   json.RawMessage `json:"tsourcepos"`
	Postings    []jsonPosting   `json:"tpostings"`
}

type jsonPosting struct {
	Account     string          `json:"paccount"`
	Amounts     []jsonAmount    `json:"pamount"`
	Comment     string          `json:"pcomment"`
	Transaction json.RawMessage `json:"ptransaction_"`
}

// parser implements Parser for one dialect.
type parser struct {
	d dialect
}

func (p *parser) Version() model.APIVersion {
	return p.d.version
}

func (p *parser) ParseAccounts(r io.Reader) ([]LedgerAccount, error) {
	var raw []jsonAccount
	if err := p.d.decode(r, "accounts", &raw); err != nil {
		return nil, err
	}

	out := make([]LedgerAccount, 0, len(raw))
	for i, ja := range raw {
		if ja.Name == "" {
			return nil, p.d.schemaErr(fmt.Sprintf("[%d].aname", i), "missing account name")
		}

		balance, postings := ja.Balance, ja.NumPostings
		if p.d.periodBalances {
			if ja.Balance != nil {
				return nil, p.d.schemaErr("aibalance", "field not used by this version")
			}
			var err error
			balance, postings, err = p.periodBalance(ja.Data)
			if err != nil {
				return nil, fmt.Errorf("account %q: %w", ja.Name, err)
			}
		} else if jsonKind(ja.Data) != 0 {
			return nil, p.d.schemaErr("adata", "field not used by this version")
		}

		amounts, err := p.convertAmounts(balance)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", ja.Name, err)
		}
		out = append(out, LedgerAccount{
			Name:     accounts.NormalizeName(ja.Name),
			Amounts:  aggregate(amounts),
			Postings: postings,
		})
	}
	return out, nil
}

// periodBalance pulls the inclusive balance and posting count of the first
// period out of a 1.50 adata object.
func (p *parser) periodBalance(raw json.RawMessage) ([]jsonAmount, int, error) {
	switch jsonKind(raw) {
	case 0:
		return nil, 0, nil
	case '{':
	default:
		return nil, 0, p.d.schemaErr("adata", "expected an object")
	}

	var data any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, 0, fmt.Errorf("decoding adata: %w", err)
	}

	periods, err := jsonpath.Get("$.pdperiods", data)
	if err != nil {
		return nil, 0, nil
	}
	if list, ok := periods.([]any); !ok {
		return nil, 0, p.d.schemaErr("adata.pdperiods", "expected a list")
	} else if len(list) == 0 {
		return nil, 0, nil
	}

	first, err := jsonpath.Get("$.pdperiods[0][1]", data)
	if err != nil {
		return nil, 0, p.d.schemaErr("adata.pdperiods[0]", "expected a [date, balance] pair")
	}
	if _, ok := first.(map[string]any); !ok {
		return nil, 0, p.d.schemaErr("adata.pdperiods[0][1]", "expected an object")
	}

	var amounts []jsonAmount
	if incl, err := jsonpath.Get("$.pdperiods[0][1].bdincludingsubs", data); err == nil {
		b, err := json.Marshal(incl)
		if err != nil {
			return nil, 0, fmt.Errorf("re-encoding bdincludingsubs: %w", err)
		}
		if err := json.Unmarshal(b, &amounts); err != nil {
			return nil, 0, fmt.Errorf("decoding bdincludingsubs: %w", err)
		}
	}

	postings := 0
	if n, err := jsonpath.Get("$.pdperiods[0][1].bdnumpostings", data); err == nil {
		if num, ok := n.(json.Number); ok {
			v, err := num.Int64()
			if err != nil {
				return nil, 0, fmt.Errorf("decoding bdnumpostings: %w", err)
			}
			postings = int(v)
		}
	}
	return amounts, postings, nil
}

func (p *parser) ParseTransactions(r io.Reader) ([]model.Transaction, error) {
	var raw []jsonTransaction
	if err := p.d.decode(r, "transactions", &raw); err != nil {
		return nil, err
	}

	out := make([]model.Transaction, 0, len(raw))
	for _, jt := range raw {
		if err := p.d.checkSourcePos(jt.SourcePos); err != nil {
			return nil, err
		}
		date, err := model.ParseDate(jt.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: date: %w", jt.Index, err)
		}

		tx := model.Transaction{
			LedgerID:    jt.Index,
			Date:        date,
			Description: jt.Description,
			Comment:     strings.TrimSpace(jt.Comment),
		}
		for _, jp := range jt.Postings {
			if err := p.d.checkTransactionIndex(jp.Transaction); err != nil {
				return nil, err
			}
			amounts, err := p.convertAmounts(jp.Amounts)
			if err != nil {
				return nil, fmt.Errorf("transaction %d: %w", jt.Index, err)
			}
			name := accounts.NormalizeName(jp.Account)
			comment := strings.TrimSpace(jp.Comment)
			if len(amounts) == 0 {
				tx.Lines = append(tx.Lines, model.TransactionLine{AccountName: name, Comment: comment})
				continue
			}
			for _, a := range amounts {
				tx.Lines = append(tx.Lines, model.TransactionLine{
					AccountName: name,
					Amount:      a.Amount,
					Currency:    a.Currency,
					Comment:     comment,
				})
			}
		}
		out = append(out, tx)
	}
	return out, nil
}

func (p *parser) convertAmounts(in []jsonAmount) ([]model.AccountAmount, error) {
	out := make([]model.AccountAmount, 0, len(in))
	for _, ja := range in {
		if err := p.d.checkStyle(ja.Style); err != nil {
			return nil, err
		}
		v, err := ja.Quantity.value()
		if err != nil {
			return nil, err
		}
		f, _ := v.Float64()
		out = append(out, model.AccountAmount{Currency: ja.Commodity, Amount: float32(f)})
	}
	return out, nil
}

func (q jsonQuantity) value() (decimal.Decimal, error) {
	switch {
	case q.Mantissa != nil:
		m, err := decimal.NewFromString(q.Mantissa.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("decoding decimalMantissa: %w", err)
		}
		return m.Shift(-q.Places), nil
	case q.Floating != nil:
		return decimal.NewFromFloat(*q.Floating), nil
	}
	return decimal.Zero, nil
}

// aggregate merges amounts of the same currency, keeping first-seen order.
func aggregate(in []model.AccountAmount) []model.AccountAmount {
	var acc model.Account
	for _, a := range in {
		acc.AddAmount(a.Currency, a.Amount)
	}
	return acc.Amounts
}
