// Package relay reconstructs the argument vector for the wrapped utility.
package relay

// Options holds every flag this tool accepts. FormatOK and FormatProblem
// belong to this tool; everything else is passed through to collectd-nagios
// unchanged. Empty string / false means the flag was not supplied.
type Options struct {
	FormatOK      string // -f, applied when the utility exits OK
	FormatProblem string // -F, applied when the utility exits WARNING or CRITICAL

	Hostname      string // -H
	Socket        string // -s
	ValueSpec     string // -n
	Consolidation string // -g
	DataSource    string // -d
	Warning       string // -w
	Critical      string // -c
	IfMissing     bool   // -m
	UtilityHelp   bool   // -h
}

// Args returns the argument vector for the subprocess. Valued flags become
// a flag/value pair, boolean flags a bare flag. The format flags are never
// relayed. The vector is handed to exec directly, so no quoting is needed
// and values survive byte-for-byte.
func (o Options) Args() []string {
	var args []string

	valued := []struct {
		flag  string
		value string
	}{
		{"-H", o.Hostname},
		{"-s", o.Socket},
		{"-n", o.ValueSpec},
		{"-g", o.Consolidation},
		{"-d", o.DataSource},
		{"-w", o.Warning},
		{"-c", o.Critical},
	}
	for _, f := range valued {
		if f.value != "" {
			args = append(args, f.flag, f.value)
		}
	}

	if o.IfMissing {
		args = append(args, "-m")
	}
	if o.UtilityHelp {
		args = append(args, "-h")
	}

	return args
}
