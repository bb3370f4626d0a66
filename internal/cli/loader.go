package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/veldt/sparqlet/internal/codec"
	"github.com/veldt/sparqlet/internal/rdf"
)

// LoadMode controls how errors are handled during workspace loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// DefaultGraphKey names the default graph in a workspace manifest's
// graphs map.
const DefaultGraphKey = "default"

// Workspace is a loaded RDF workspace: the prefix table and the dataset
// assembled from the manifest's graph files.
type Workspace struct {
	Namespaces *rdf.Namespaces
	Dataset    *rdf.Dataset
	FileCount  int // Number of CUE manifest files found
}

// LoadError represents an error that occurred during workspace loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeBadGraph    = "E007" // Graph file unreadable or malformed
)

// LoadWorkspace loads a workspace manifest from a directory and assembles
// its dataset.
//
// A manifest is one or more CUE files declaring prefixes and graph files:
//
//	prefixes: foaf: "http://xmlns.com/foaf/0.1/"
//	graphs: default:                      "data/people.nt"
//	graphs: "http://example.org/g/places": "data/places.xml"
//
// Graph file formats derive from the extension: .nt is N-Triples; .rdf,
// .xml are RDF/XML. Relative paths resolve against the workspace
// directory.
//
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadWorkspace(dir string, mode LoadMode) (*Workspace, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("workspace directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing workspace directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir, Package: "_"}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	ws := &Workspace{
		Namespaces: rdf.NewNamespaces(),
		Dataset:    rdf.NewDataset(),
		FileCount:  len(cueFiles),
	}
	var errs []error

	prefixesVal := value.LookupPath(cue.ParsePath("prefixes"))
	if prefixesVal.Exists() {
		iter, iterErr := prefixesVal.Fields()
		if iterErr != nil {
			errs = append(errs, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("iterating prefixes: %v", iterErr)})
			if mode == LoadModeFailFast {
				return ws, errs
			}
		} else {
			for iter.Next() {
				iri, strErr := iter.Value().String()
				if strErr != nil {
					errs = append(errs, &LoadError{
						Code:    ErrCodeBuildFailed,
						Message: fmt.Sprintf("prefix %q: %v", iter.Label(), strErr),
						Pos:     iter.Value().Pos(),
					})
					if mode == LoadModeFailFast {
						return ws, errs
					}
					continue
				}
				ws.Namespaces.Bind(iter.Label(), iri)
			}
		}
	}

	graphsVal := value.LookupPath(cue.ParsePath("graphs"))
	if graphsVal.Exists() {
		iter, iterErr := graphsVal.Fields()
		if iterErr != nil {
			errs = append(errs, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("iterating graphs: %v", iterErr)})
			if mode == LoadModeFailFast {
				return ws, errs
			}
		} else {
			for iter.Next() {
				name := iter.Label()
				path, strErr := iter.Value().String()
				if strErr != nil {
					errs = append(errs, &LoadError{
						Code:    ErrCodeBuildFailed,
						Message: fmt.Sprintf("graph %q: %v", name, strErr),
						Pos:     iter.Value().Pos(),
					})
					if mode == LoadModeFailFast {
						return ws, errs
					}
					continue
				}
				if loadErr := loadGraphFile(ws.Dataset, dir, name, path); loadErr != nil {
					errs = append(errs, loadErr)
					if mode == LoadModeFailFast {
						return ws, errs
					}
				}
			}
		}
	}

	if ws.Dataset.Default().Len() == 0 && len(ws.Dataset.Names()) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no graphs declared in workspace manifest"})
	}

	return ws, errs
}

// loadGraphFile parses one manifest graph entry into the dataset. The
// DefaultGraphKey entry fills the default graph; any other key is the
// named graph's IRI.
func loadGraphFile(d *rdf.Dataset, dir, name, path string) *LoadError {
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	format, ok := formatForFile(path)
	if !ok {
		return &LoadError{Code: ErrCodeBadGraph, Message: fmt.Sprintf("graph %q: cannot infer format from %s", name, filepath.Base(path))}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Code: ErrCodeBadGraph, Message: fmt.Sprintf("graph %q: %v", name, err)}
	}

	g, err := codec.Parse(data, format)
	if err != nil {
		return &LoadError{Code: ErrCodeBadGraph, Message: fmt.Sprintf("graph %q: parsing %s: %v", name, filepath.Base(path), err)}
	}

	target := d.Default()
	if name != DefaultGraphKey {
		target = d.CreateGraph(name)
	}
	target.Merge(g)
	return nil
}

// formatForFile maps a graph file extension to a codec format.
func formatForFile(path string) (string, bool) {
	switch filepath.Ext(path) {
	case ".nt":
		return codec.FormatNTriples, true
	case ".rdf", ".xml":
		return codec.FormatRDFXML, true
	}
	return "", false
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
