package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cryptoboard/internal/domain"
)

// InputParams — параметры, собранные интерактивно в CLI.
type InputParams struct {
	CoinID   string
	Interval domain.Interval
}

// GetInteractiveParams — опрос пользователя: монета из топа и период графика.
func GetInteractiveParams(in io.Reader, out io.Writer, coins []domain.Coin) InputParams {
	reader := bufio.NewReader(in)

	ids := make([]string, 0, len(coins))
	labels := make([]string, 0, len(coins))
	for _, c := range coins {
		ids = append(ids, c.ID)
		labels = append(labels, fmt.Sprintf("%s (%s)", c.Name, c.Symbol))
	}

	params := InputParams{Interval: domain.DefaultInterval}
	if len(ids) > 0 {
		fmt.Fprintln(out, "\nКакую монету показать?")
		params.CoinID = ids[askFromList(reader, out, labels, 1)-1]
	}
	params.Interval = askInterval(reader, out)

	fmt.Fprintf(out, "\nМонета: %s, период: %s\n", params.CoinID, params.Interval)
	return params
}

func askInterval(r *bufio.Reader, out io.Writer) domain.Interval {
	ivs := domain.Intervals()
	for {
		names := make([]string, len(ivs))
		for i, iv := range ivs {
			names[i] = string(iv)
		}
		fmt.Fprintf(out, "Период [%s] (Enter = %s): ", strings.Join(names, "/"), domain.DefaultInterval)

		raw, err := r.ReadString('\n')
		raw = strings.TrimSpace(raw)
		iv, perr := domain.ParseInterval(raw)
		if perr == nil {
			return iv
		}
		if err != nil {
			// ввод кончился — берём по умолчанию
			return domain.DefaultInterval
		}
		fmt.Fprintln(out, "Введите одну из меток, например 1D или 1M.")
	}
}

// askFromList возвращает номер варианта, начиная с 1.
func askFromList(r *bufio.Reader, out io.Writer, options []string, defIndex1 int) int {
	for i, c := range options {
		fmt.Fprintf(out, "%d) %s\n", i+1, c)
	}
	fmt.Fprintf(out, "Ваш выбор [1-%d] (Enter = %d): ", len(options), defIndex1)

	raw, _ := r.ReadString('\n')
	raw = strings.TrimSpace(raw)

	idx := defIndex1
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			idx = n
		}
	}
	if idx < 1 || idx > len(options) {
		idx = defIndex1
	}
	return idx
}

func humanUSD(s string) string {
	intPart, frac := split2(s, ".")
	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}
	intPart = withThinSpaces(intPart)
	if frac == "" {
		return sign + intPart
	}
	return sign + intPart + "," + frac // запятая как в примерах
}

func split2(s, sep string) (string, string) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

func withThinSpaces(s string) string {
	// добавим пробелы между тысячами справа налево
	if len(s) <= 3 {
		return s
	}
	var out []byte
	cnt := 0
	for i := len(s) - 1; i >= 0; i-- {
		out = append(out, s[i])
		cnt++
		if cnt%3 == 0 && i != 0 {
			out = append(out, ' ')
		}
	}
	// reverse
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}
