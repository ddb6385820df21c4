// Package menu is the interactive text front end. It reads one line per
// prompt, parses it into typed values, and reports every error locally so the
// loop never exits on bad input.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"shopbackend/internal/logger"
	"shopbackend/internal/shop"
)

// errInputClosed stops the loop when the input stream ends
var errInputClosed = errors.New("input closed")

type Menu struct {
	shop *shop.Service
	in   *bufio.Scanner
	out  io.Writer
}

func New(svc *shop.Service, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		shop: svc,
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

// Run drives the top-level menu until Exit or end of input, saving on the way out
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return m.exit(ctx)
		}

		m.println("\n-------- Online Shopping --------")
		m.println("1. Register")
		m.println("2. Login")
		m.println("3. Exit")

		choice, err := m.prompt(ctx, "Enter your choice: ")
		if err != nil {
			return m.exit(ctx)
		}

		switch choice {
		case "1":
			err = m.register(ctx)
		case "2":
			err = m.login(ctx)
		case "3":
			return m.exit(ctx)
		default:
			m.println("Invalid choice.")
		}
		if errors.Is(err, errInputClosed) || ctx.Err() != nil {
			return m.exit(ctx)
		}
	}
}

func (m *Menu) exit(ctx context.Context) error {
	if err := m.shop.Save(context.WithoutCancel(ctx)); err != nil {
		m.printf("Failed to save data: %v\n", err)
		return err
	}
	m.println("Thank you for using our Online Shopping system.")
	logger.LogInfo("Session loop ended, data saved")
	return nil
}

func (m *Menu) register(ctx context.Context) error {
	username, err := m.prompt(ctx, "Enter username: ")
	if err != nil {
		return err
	}
	if m.shop.IsUsernameTaken(username) {
		m.println("Username already exists.")
		return nil
	}

	password, err := m.prompt(ctx, "Enter password (at least 6 characters): ")
	if err != nil {
		return err
	}
	role, err := m.prompt(ctx, "Enter role (admin/customer): ")
	if err != nil {
		return err
	}
	name, err := m.prompt(ctx, "Enter name: ")
	if err != nil {
		return err
	}

	reg := shop.Registration{Username: username, Password: password, Role: role, Name: name}
	if strings.EqualFold(strings.TrimSpace(role), "customer") {
		budget, ok, err := m.promptFloat(ctx, "Enter budget: ")
		if err != nil || !ok {
			return err
		}
		reg.Budget = budget
	}

	if _, err := m.shop.Register(ctx, reg); err != nil {
		m.report(err)
		return nil
	}
	m.println("Registration successful.")
	return nil
}

func (m *Menu) login(ctx context.Context) error {
	username, err := m.prompt(ctx, "Enter username: ")
	if err != nil {
		return err
	}
	password, err := m.prompt(ctx, "Enter password: ")
	if err != nil {
		return err
	}

	sess, err := m.shop.Login(username, password)
	if err != nil {
		m.println("Invalid username or password.")
		return nil
	}
	user := sess.User()
	m.printf("Logged in as %s (%s).\n", user.Username, user.Role)

	if sess.IsAdmin() {
		return m.adminLoop(ctx, sess)
	}
	return m.customerLoop(ctx, sess)
}

// =============================================================================
// INPUT HELPERS
// =============================================================================

// prompt reads one line. A line that arrives after ctx is done is discarded.
func (m *Menu) prompt(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.printf("%s", text)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", errInputClosed
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(m.in.Text()), nil
}

// promptInt reads an integer. ok is false when the line did not parse; the
// problem has already been reported.
func (m *Menu) promptInt(ctx context.Context, text string) (int, bool, error) {
	line, err := m.prompt(ctx, text)
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		m.printf("Invalid number: %q\n", line)
		return 0, false, nil
	}
	return n, true, nil
}

func (m *Menu) promptFloat(ctx context.Context, text string) (float64, bool, error) {
	line, err := m.prompt(ctx, text)
	if err != nil {
		return 0, false, err
	}
	f, err := strconv.ParseFloat(line, 64)
	if err != nil {
		m.printf("Invalid number: %q\n", line)
		return 0, false, nil
	}
	return f, true, nil
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, v ...interface{}) {
	fmt.Fprintf(m.out, format, v...)
}

// report prints an operation error in operator-facing terms
func (m *Menu) report(err error) {
	switch {
	case errors.Is(err, shop.ErrMaxLevel):
		m.println("You have reached the maximum membership level.")
	case errors.Is(err, shop.ErrPersistence):
		m.printf("Change applied but could not be saved: %v\n", err)
	default:
		m.println(capitalize(err.Error()) + ".")
	}
}

func formatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
