package truck

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DetailedHeader is the schema of the detailed CSV record store.
const DetailedHeader = "timestamp_ms,truck_id,pos_x,pos_y,ang,temp," +
	"electrical_fault,hydraulic_fault,throttle,steering,automatic,faulted,temperature_alert"

// detailedFieldCount is the number of columns in the current schema.
const detailedFieldCount = 13

const (
	primaryLogName  = "truck_log.txt"
	detailedCSVName = "truck_log_detailed.csv"
)

// Record is one row of the detailed store.
type Record struct {
	Sample   Sample
	Throttle int
	Steering int

	Automatic bool
	Faulted   bool
	TempAlert bool
}

// DataLog persists the primary event log and the detailed CSV record store.
// All writes are best-effort: a failed write is returned to the caller for
// logging but must never stop a task loop.
type DataLog struct {
	truckID  int
	primary  *os.File
	detailed *os.File
}

// OpenDataLog creates the log directory if needed, migrates an existing
// detailed store written with the previous (shorter) schema and opens both
// files for appending.
func OpenDataLog(dir string, truckID int) (*DataLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("datalog: create %s: %w", dir, err)
	}

	detailedPath := filepath.Join(dir, detailedCSVName)
	if err := migrateDetailed(detailedPath); err != nil {
		// Migration is best-effort: a corrupt historical file must not
		// keep the truck from logging new records.
		fmt.Fprintf(os.Stderr, "datalog: migration of %s failed: %v\n", detailedPath, err)
	}

	primary, err := os.OpenFile(filepath.Join(dir, primaryLogName),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("datalog: open primary log: %w", err)
	}

	detailed, err := os.OpenFile(detailedPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		primary.Close()
		return nil, fmt.Errorf("datalog: open detailed store: %w", err)
	}

	d := &DataLog{truckID: truckID, primary: primary, detailed: detailed}
	if st, err := detailed.Stat(); err == nil && st.Size() == 0 {
		fmt.Fprintln(detailed, DetailedHeader)
	}
	return d, nil
}

// migrateDetailed rewrites a store whose header predates the
// temperature_alert column: the new header replaces the old one and every
// historical row with exactly one missing field gets a default appended.
func migrateDetailed(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	lines := strings.Split(string(data), "\n")
	needRewrite := false
	for _, line := range lines {
		if strings.HasPrefix(line, "timestamp_ms") &&
			!strings.Contains(line, "temperature_alert") {
			needRewrite = true
			break
		}
		if line != "" && strings.Count(line, ",") == detailedFieldCount-2 {
			needRewrite = true
			break
		}
	}
	if !needRewrite {
		return nil
	}

	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	fmt.Fprintln(w, DetailedHeader)
	for _, line := range lines {
		if line == "" || strings.HasPrefix(line, "timestamp_ms") {
			continue
		}
		if strings.Count(line, ",") == detailedFieldCount-2 {
			line += ",0"
		}
		fmt.Fprintln(w, line)
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Description returns the log description tag for a sample: ALERTA_TEMP
// when the temperature alert is raised, otherwise the semicolon-joined
// fault tags present on the sample, otherwise OK.
func Description(tempAlert bool, s Sample) string {
	if tempAlert {
		return "ALERTA_TEMP"
	}
	var b strings.Builder
	if s.ElectricalFault {
		b.WriteString("FALHA_ELETRICA;")
	}
	if s.HydraulicFault {
		b.WriteString("FALHA_HIDRAULICA;")
	}
	if s.Temp > TempDefectLevel {
		b.WriteString("DEFEITO_TEMPERATURA;")
	}
	if b.Len() == 0 {
		return "OK"
	}
	return b.String()
}

// ModeTag returns the MODE column value for the primary log.
func ModeTag(automatic bool) string {
	if automatic {
		return "AUTOMATIC"
	}
	return "MANUAL"
}

// AppendPrimary writes one line to the primary log:
// timestamp_ms,truck_id,MODE,pos_x,pos_y,description.
func (d *DataLog) AppendPrimary(s Sample, automatic bool, desc string) error {
	_, err := fmt.Fprintf(d.primary, "%d,%d,%s,%d,%d,%s\n",
		s.TimestampMs, d.truckID, ModeTag(automatic), s.PosX, s.PosY, desc)
	return err
}

// AppendDetailed writes one row to the detailed store.
func (d *DataLog) AppendDetailed(r Record) error {
	s := r.Sample
	_, err := fmt.Fprintf(d.detailed, "%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d\n",
		s.TimestampMs, d.truckID, s.PosX, s.PosY, s.Heading, s.Temp,
		BoolFlag(s.ElectricalFault), BoolFlag(s.HydraulicFault),
		r.Throttle, r.Steering,
		BoolFlag(r.Automatic), BoolFlag(r.Faulted), BoolFlag(r.TempAlert))
	return err
}

// AppendDiagnostic records that a command payload arrived through the
// telemetry ingress and was forwarded to the unified command channel.
func (d *DataLog) AppendDiagnostic(ts uint64, payload string) error {
	_, err := fmt.Fprintf(d.primary, "DBG_CMD,%d,%d,%s\n", ts, d.truckID, payload)
	return err
}

// Close closes both files.
func (d *DataLog) Close() {
	d.primary.Close()
	d.detailed.Close()
}
