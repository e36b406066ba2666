package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errInputClosed = errors.New("input stream closed")

// readLine печатает приглашение и возвращает строку без перевода строки.
func (s *Session) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// readInt64 повторяет приглашение, пока не введено целое число.
func (s *Session) readInt64(prompt string) (int64, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			fmt.Fprintln(s.out, "Please enter a number.")
			continue
		}
		return v, nil
	}
}

func (s *Session) readInt32(prompt string) (int32, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(line, 10, 32)
		if err != nil {
			fmt.Fprintln(s.out, "Please enter a number.")
			continue
		}
		return int32(v), nil
	}
}

// readInt32OrKeep возвращает -1 на пустой ввод («оставить как есть»).
func (s *Session) readInt32OrKeep(prompt string) (int32, error) {
	line, err := s.readLine(prompt)
	if err != nil {
		return 0, err
	}
	if line == "" {
		return -1, nil
	}
	v, err := strconv.ParseInt(line, 10, 32)
	if err != nil {
		fmt.Fprintln(s.out, "Not a number, keeping the current value.")
		return -1, nil
	}
	return int32(v), nil
}

// readMoney повторяет приглашение, пока не введена сумма вида «12» или «12.34».
func (s *Session) readMoney(prompt string) (int64, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return 0, err
		}
		v, err := parseMoney(line)
		if err != nil {
			fmt.Fprintln(s.out, "Please enter an amount like 12.34.")
			continue
		}
		return v, nil
	}
}

// readMoneyOrKeep возвращает -1 на пустой ввод.
func (s *Session) readMoneyOrKeep(prompt string) (int64, error) {
	line, err := s.readLine(prompt)
	if err != nil {
		return 0, err
	}
	if line == "" {
		return -1, nil
	}
	v, err := parseMoney(line)
	if err != nil {
		fmt.Fprintln(s.out, "Not an amount, keeping the current value.")
		return -1, nil
	}
	return v, nil
}

// parseMoney конвертирует десятичную сумму в минимальные единицы,
// не более двух знаков после точки.
func parseMoney(in string) (int64, error) {
	in = strings.TrimSpace(in)
	if in == "" {
		return 0, errors.New("empty amount")
	}
	negative := false
	if strings.HasPrefix(in, "-") {
		negative = true
		in = in[1:]
	}

	whole, frac, _ := strings.Cut(in, ".")
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, err
	}
	var cents int64
	switch len(frac) {
	case 0:
	case 1:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, err
		}
		cents = d * 10
	case 2:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, err
		}
		cents = d
	default:
		return 0, errors.New("at most two decimal places")
	}

	v := units*100 + cents
	if negative {
		v = -v
	}
	return v, nil
}

// formatMoney печатает минимальные единицы как десятичную сумму.
func formatMoney(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<16)
	return sc
}
