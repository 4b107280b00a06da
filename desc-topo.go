package grooming

// desc-topo.go holds the serializable descriptions of topologies, and the helpers
// that move them (and the other serializable structs of the package) to and from
// files.  Serialization to json or to yaml is selected by the file extension.

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned when a file extension names no supported encoding
var ErrUnknownFormat = errors.New("unknown file format")

// A TopologyDesc is the pointer-free description of a Topology
type TopologyDesc struct {
	Name  string   `json:"name" yaml:"name"`
	Nodes []NodeID `json:"nodes" yaml:"nodes"`
	Links []Link   `json:"links" yaml:"links"`
}

// Transform produces the serializable description of the topology
func (tp *Topology) Transform() TopologyDesc {
	return TopologyDesc{Name: tp.Name, Nodes: tp.Nodes(), Links: tp.Links()}
}

// Build creates the Topology a description describes
func (td *TopologyDesc) Build() (*Topology, error) {
	tp := CreateTopology(td.Name)
	for _, node := range td.Nodes {
		tp.AddNode(node)
	}
	errs := []error{}
	for _, lnk := range td.Links {
		errs = append(errs, tp.AddEdge(lnk.A, lnk.B))
	}
	if err := ReportErrs(errs); err != nil {
		return nil, err
	}
	return tp, nil
}

// WriteToFile stores the TopologyDesc in the file whose name is given
func (td *TopologyDesc) WriteToFile(filename string) error {
	return writeDesc(filename, td)
}

// ReadTopologyDesc deserializes a byte slice holding a TopologyDesc.  If the slice is
// empty the file whose name is given is read to acquire it.
func ReadTopologyDesc(filename string, useYAML bool, dict []byte) (*TopologyDesc, error) {
	td := TopologyDesc{}
	if err := readDesc(filename, useYAML, dict, &td); err != nil {
		return nil, err
	}
	return &td, nil
}

// ReadEdgeList parses a plain edge list: one "a b" pair of node ids per line.
// Blank lines and lines starting with '#' are skipped.
func ReadEdgeList(name string, rdr io.Reader) (*Topology, error) {
	tp := CreateTopology(name)
	scanner := bufio.NewScanner(rdr)
	lineNo := 0
	for scanner.Scan() {
		lineNo += 1
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s line %d: expected two node ids, found %q", name, lineNo, line)
		}
		a, aerr := strconv.ParseInt(fields[0], 10, 64)
		b, berr := strconv.ParseInt(fields[1], 10, 64)
		if aerr != nil || berr != nil {
			return nil, fmt.Errorf("%s line %d: node ids must be integers, found %q", name, lineNo, line)
		}
		if err := tp.AddEdge(NodeID(a), NodeID(b)); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tp, nil
}

// LoadTopology reads a topology from a json or yaml description, or from a plain
// edge list for any other extension
func LoadTopology(filename string) (*Topology, error) {
	switch descFormat(filename) {
	case "yaml":
		td, err := ReadTopologyDesc(filename, true, nil)
		if err != nil {
			return nil, err
		}
		return td.Build()
	case "json":
		td, err := ReadTopologyDesc(filename, false, nil)
		if err != nil {
			return nil, err
		}
		return td.Build()
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	tp, err := ReadEdgeList(name, f)
	if err != nil {
		return nil, err
	}
	TopoLog.Infof("read topology %s: %d nodes, %d links", name, tp.NumNodes(), len(tp.Links()))
	return tp, nil
}

// descFormat maps a file extension onto "yaml", "json", or ""
func descFormat(filename string) string {
	switch path.Ext(filename) {
	case ".yaml", ".YAML", ".yml":
		return "yaml"
	case ".json", ".JSON":
		return "json"
	}
	return ""
}

// encodeDesc serializes desc in the format the extension of filename selects
func encodeDesc(filename string, desc any) ([]byte, error) {
	switch descFormat(filename) {
	case "yaml":
		return yaml.Marshal(desc)
	case "json":
		return json.MarshalIndent(desc, "", "\t")
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, filename)
}

// writeDesc serializes desc into the named file
func writeDesc(filename string, desc any) error {
	encoded, err := encodeDesc(filename, desc)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, encoded, 0644)
}

// readDesc deserializes dict into desc, first reading dict from the named file if it is empty
func readDesc(filename string, useYAML bool, dict []byte, desc any) error {
	var err error

	if len(dict) == 0 {
		fileInfo, serr := os.Stat(filename)
		if serr != nil || fileInfo.IsDir() {
			return fmt.Errorf("%s does not exist or cannot be read", filename)
		}
		dict, err = os.ReadFile(filename)
		if err != nil {
			return err
		}
	}

	if useYAML {
		return yaml.Unmarshal(dict, desc)
	}
	dec := json.NewDecoder(bytes.NewReader(dict))
	return dec.Decode(desc)
}

// ReportErrs transforms a list of errors into a single error carrying a
// comma-separated report of the non-nil ones, or nil if there are none
func ReportErrs(errs []error) error {
	errMsg := make([]string, 0)
	for _, err := range errs {
		if err != nil {
			errMsg = append(errMsg, err.Error())
		}
	}
	if len(errMsg) == 0 {
		return nil
	}

	return errors.New(strings.Join(errMsg, ","))
}

// CheckReadableFiles probes the file system to ensure that every
// one of the argument filenames exists and is readable
func CheckReadableFiles(names []string) (bool, error) {
	return CheckFiles(names, true)
}

// CheckOutputFiles probes the file system to ensure that every
// argument filename can be written.
func CheckOutputFiles(names []string) (bool, error) {
	return CheckFiles(names, false)
}

// CheckFiles probes the file system for the directory of every non-empty
// filename, and optionally for the existence of the file itself
func CheckFiles(names []string, checkExistence bool) (bool, error) {
	errs := make([]error, 0)

	for _, name := range names {
		if len(name) == 0 {
			continue
		}

		directory, _ := filepath.Split(name)
		if directory == "" {
			directory = "."
		}
		if _, err := os.Stat(directory); err != nil {
			errs = append(errs, err)
			continue
		}

		if checkExistence {
			if _, err := os.Stat(name); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if rtnerr := ReportErrs(errs); rtnerr != nil {
		return false, rtnerr
	}
	return true, nil
}
