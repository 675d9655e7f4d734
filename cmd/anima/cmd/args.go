package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parsedArgs holds positional arguments and --flag values.
type parsedArgs struct {
	positional []string
	values     map[string]string
	switches   map[string]bool
}

// parseArgs splits args into positionals, value flags ("--name v" or
// "--name=v") and boolean switches. Unknown flags are an error.
func parseArgs(args []string, valueFlags, switchFlags []string) (parsedArgs, error) {
	p := parsedArgs{values: map[string]string{}, switches: map[string]bool{}}
	isValue := make(map[string]bool, len(valueFlags))
	for _, f := range valueFlags {
		isValue[f] = true
	}
	isSwitch := make(map[string]bool, len(switchFlags))
	for _, f := range switchFlags {
		isSwitch[f] = true
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			p.positional = append(p.positional, arg)
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		switch {
		case isSwitch[name] && !hasValue:
			p.switches[name] = true
		case isValue[name] && hasValue:
			p.values[name] = value
		case isValue[name]:
			if i+1 >= len(args) {
				return p, fmt.Errorf("--%s requires a value", name)
			}
			p.values[name] = args[i+1]
			i++
		default:
			return p, fmt.Errorf("unknown flag: %s", arg)
		}
	}
	return p, nil
}

func (p parsedArgs) float(name string, def float64) (float64, error) {
	s, ok := p.values[name]
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("--%s: %q is not a number", name, s)
	}
	return v, nil
}

func (p parsedArgs) int(name string, def int) (int, error) {
	s, ok := p.values[name]
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("--%s: %q is not a positive integer", name, s)
	}
	return v, nil
}

// duration accepts a Go duration ("250ms") or a number of seconds.
func (p parsedArgs) duration(name string, def time.Duration) (time.Duration, error) {
	s, ok := p.values[name]
	if !ok {
		return def, nil
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("--%s: %q is not a duration", name, s)
	}
	return d, nil
}

func (p parsedArgs) arg(i int) string {
	if i < len(p.positional) {
		return p.positional[i]
	}
	return ""
}
