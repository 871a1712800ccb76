// Package terminal drives one order session from typed commands. It is the
// register's front end; the Temporal workflow is not involved.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"restaurant-pos/pos/calculator"
	"restaurant-pos/pos/export"
	"restaurant-pos/pos/menu"
	"restaurant-pos/pos/order"
	"restaurant-pos/pos/pricing"
	"restaurant-pos/pos/receipt"
	"restaurant-pos/pos/types"
)

// ErrQuit is returned by Handle for the quit command
var ErrQuit = errors.New("quit")

const helpText = `Commands:
  menu                      show the menu and the current order
  select <category> <n>     select item n (1-based) of a category
  unselect <category> <n>   deselect an item and zero its quantity
  qty <category> <n> <qty>  set the quantity of a selected item
  total                     compute category costs, subtotal, tax and total
  receipt                   generate and show the receipt
  save [path]               save the last receipt
  reset                     clear the whole order
  calc <expression>         evaluate an expression such as 12x3
  press <keys>              press calculator keys, e.g. 12+3=
  equals                    evaluate the calculator buffer
  clear                     clear the calculator buffer
  help                      show this text
  quit                      leave the register
Categories: food, drinks, desserts`

// Session is one register session
type Session struct {
	ID string

	catalog  *menu.Catalog
	state    *order.State
	taxRate  decimal.Decimal
	exporter export.Exporter
	logger   *zap.Logger

	calc    calculator.Buffer
	rng     *rand.Rand
	now     func() time.Time
	receipt *types.Receipt
}

func NewSession(id string, c *menu.Catalog, taxRate decimal.Decimal, exporter export.Exporter, logger *zap.Logger) *Session {
	return &Session{
		ID:       id,
		catalog:  c,
		state:    order.NewState(c),
		taxRate:  taxRate,
		exporter: exporter,
		logger:   logger.With(zap.String("sessionID", id)),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}
}

// Handle runs one command line and returns the text to show
func (s *Session) Handle(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	s.logger.Debug("command", zap.String("cmd", cmd), zap.Strings("args", args))

	switch cmd {
	case "menu":
		return s.menu(), nil
	case "select", "unselect":
		key, index, err := s.address(args)
		if err != nil {
			return "", err
		}
		if err := s.state.ToggleSelection(key, index, cmd == "select"); err != nil {
			return "", err
		}
		return s.describe(key, index), nil
	case "qty":
		key, index, err := s.address(args)
		if err != nil {
			return "", err
		}
		if err := s.state.SetQuantity(key, index, strings.Join(args[2:], " ")); err != nil {
			return "", err
		}
		return s.describe(key, index), nil
	case "total":
		return s.total(), nil
	case "receipt":
		return s.generateReceipt(), nil
	case "save":
		return s.save(ctx, strings.Join(args, " "))
	case "reset":
		s.state.Reset()
		s.receipt = nil
		return "Order cleared", nil
	case "calc":
		return calculator.Display(strings.Join(args, "")), nil
	case "press":
		keys := strings.Join(args, "")
		for _, key := range keys {
			if !calculator.IsKey(string(key)) {
				return "", fmt.Errorf("%q is not a calculator key, use %s", key, strings.Join(calculator.Keys, " "))
			}
		}
		display := s.calc.Text()
		for _, key := range keys {
			display = s.calc.Press(string(key))
		}
		return display, nil
	case "equals", "=":
		return s.calc.Equals(), nil
	case "clear":
		s.calc.Clear()
		return "", nil
	case "help", "?":
		return helpText, nil
	case "quit", "exit":
		return "", ErrQuit
	default:
		return "", fmt.Errorf("unknown command %q, try help", cmd)
	}
}

// address reads "<category> <n>" from the front of args
func (s *Session) address(args []string) (types.CategoryKey, int, error) {
	if len(args) < 2 {
		return 0, 0, errors.New("expected <category> <n>")
	}
	key, err := types.ParseCategoryKey(strings.ToLower(args[0]))
	if err != nil {
		return 0, 0, err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("item number %q is not a number", args[1])
	}
	return key, n - 1, nil
}

func (s *Session) describe(key types.CategoryKey, index int) string {
	item, err := s.catalog.Item(key, index)
	if err != nil {
		return err.Error()
	}
	l, err := s.state.Line(key, index)
	if err != nil {
		return err.Error()
	}
	switch {
	case !l.Selected:
		return fmt.Sprintf("%s: not selected", item.Name)
	case l.AwaitingEntry:
		return fmt.Sprintf("%s: selected, enter a quantity", item.Name)
	default:
		return fmt.Sprintf("%s: %s x %s", item.Name, l.Quantity.String(), pricing.FormatMoney(item.UnitPrice))
	}
}

func (s *Session) menu() string {
	var b strings.Builder
	for _, cat := range s.catalog.Categories {
		fmt.Fprintf(&b, "%s (%s)\n", cat.DisplayName, cat.Key)
		lines := s.state.Lines(cat.Key)
		for i, item := range cat.Items {
			mark, qty := " ", ""
			if i < len(lines) && lines[i].Selected {
				mark = "x"
				qty = lines[i].Quantity.String()
			}
			fmt.Fprintf(&b, "  [%s] %d. %-12s %7s  %s\n", mark, i+1, item.Name, pricing.FormatMoney(item.UnitPrice), qty)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Session) total() string {
	totals := pricing.ComputeTotals(s.catalog, s.state, s.taxRate)
	var b strings.Builder
	for _, cat := range s.catalog.Categories {
		fmt.Fprintf(&b, "Cost of %s: %s\n", cat.DisplayName, pricing.FormatMoney(totals.Category(cat.Key)))
	}
	fmt.Fprintf(&b, "Subtotal: %s\n", pricing.FormatMoney(totals.Subtotal))
	fmt.Fprintf(&b, "Tax: %s\n", pricing.FormatMoney(totals.Tax))
	fmt.Fprintf(&b, "Total: %s", pricing.FormatMoney(totals.Total))

	s.logger.Info("totals computed", zap.String("total", pricing.FormatMoney(totals.Total)))
	return b.String()
}

func (s *Session) generateReceipt() string {
	totals := pricing.ComputeTotals(s.catalog, s.state, s.taxRate)
	r := receipt.Build(s.catalog, s.state, totals, s.taxRate, receipt.NewNumber(s.rng), s.now())
	s.receipt = &r

	s.logger.Info("receipt generated", zap.Int("number", r.Number), zap.Int("lines", len(r.Lines)))
	return receipt.Format(r)
}

func (s *Session) save(ctx context.Context, dest string) (string, error) {
	if s.receipt == nil {
		return "", &types.ValidationError{Msg: "Receipt is empty!"}
	}
	if s.exporter == nil {
		return "", &types.PermanentError{Msg: "no receipt exporter configured"}
	}
	if dest == "" {
		dest = receipt.FileName(s.receipt.Number)
	}

	location, err := s.exporter.Export(ctx, dest, []byte(receipt.Format(*s.receipt)))
	if err != nil {
		return "", fmt.Errorf("save receipt: %w", err)
	}
	s.logger.Info("receipt saved", zap.String("location", location))
	return "Saved " + location, nil
}
