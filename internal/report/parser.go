// Package report streams InspectCode XML reports and turns the findings of one
// project into violations.
//
// A report looks like:
//
//	<Report>
//	  <IssueTypes>
//	    <IssueType Id="UnusedVariable" Category="..." Severity="WARNING" />
//	  </IssueTypes>
//	  <Issues>
//	    <Project Name="Core">
//	      <Issue TypeId="UnusedVariable" File="src\Core\A.cs" Line="12" Message="..." />
//	    </Project>
//	  </Issues>
//	</Report>
//
// IssueTypes may appear before or after Issues. Only the Project block whose
// name matches the project under analysis is read; the others are skipped
// without looking at their issues.
package report

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/ludo-technologies/rsbridge/internal/catalog"
	"github.com/ludo-technologies/rsbridge/internal/workspace"
	"github.com/sirupsen/logrus"
)

// Element names of the report grammar
const (
	elemIssues     = "Issues"
	elemProject    = "Project"
	elemIssue      = "Issue"
	elemIssueTypes = "IssueTypes"
	elemIssueType  = "IssueType"
)

// state is the position of the parser in the element tree
type state int

const (
	stateDocument state = iota
	stateRoot
	stateIssues
	stateProject
	stateIssueTypes
)

// Options configures a Parser
type Options struct {
	Catalog  *catalog.Catalog
	Solution *workspace.Solution
	Project  workspace.Project

	// Exclusions drops findings in excluded files; nil excludes nothing
	Exclusions *workspace.Exclusions

	// IncludeAllFiles keeps findings in files outside the project
	IncludeAllFiles bool

	// SourceCharset is the encoding of the report; empty trusts the XML declaration
	SourceCharset string

	Sink   domain.ViolationSink
	Logger logrus.FieldLogger
}

// Run holds the per-run state and counters of one parse
type Run struct {
	Report   string
	Project  string
	Registry *IssueTypeRegistry
	Missing  *MissingTypeTracker

	// Issues counts the findings of the project under analysis
	Issues int

	// Violations counts the violations saved to the sink, the synthetic one included
	Violations int

	// Dropped counts findings in excluded files or files outside the project
	Dropped int

	// SkippedProjects counts Project blocks of other projects
	SkippedProjects int
}

// Parser reads reports for a single project. A Parser keeps no state between
// runs, so parsing the same report twice yields the same violations.
type Parser struct {
	resolver *Resolver
	charset  *sourceCharset
	sink     domain.ViolationSink
	logger   logrus.FieldLogger
}

// NewParser creates a parser for opts.Project
func NewParser(opts Options) (*Parser, error) {
	if opts.Catalog == nil {
		return nil, domain.NewInvalidInputError("rule catalog is required", nil)
	}
	if opts.Solution == nil {
		return nil, domain.NewInvalidInputError("solution is required", nil)
	}
	if opts.Sink == nil {
		return nil, domain.NewInvalidInputError("violation sink is required", nil)
	}
	if opts.Project.Name == "" {
		return nil, domain.NewInvalidInputError("project name is required", nil)
	}

	charset, err := newSourceCharset(opts.SourceCharset)
	if err != nil {
		return nil, domain.NewConfigError("invalid source charset", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger = logger.WithField("project", opts.Project.Name)

	return &Parser{
		resolver: &Resolver{
			rules:           opts.Catalog,
			repository:      opts.Catalog.Repository(),
			solution:        opts.Solution,
			project:         opts.Project,
			exclusions:      opts.Exclusions,
			includeAllFiles: opts.IncludeAllFiles,
			logger:          logger,
		},
		charset: charset,
		sink:    opts.Sink,
		logger:  logger,
	}, nil
}

// Parse reads the report at path
func (p *Parser) Parse(path string) (*Run, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, domain.NewReportReadError(fmt.Sprintf("unable to open report %s", path), err)
	}
	defer file.Close()

	return p.ParseReader(file, path)
}

// ParseReader reads a report from r; name identifies the report in errors
func (p *Parser) ParseReader(r io.Reader, name string) (*Run, error) {
	run := &Run{
		Report:   name,
		Project:  p.resolver.project.Name,
		Registry: NewIssueTypeRegistry(),
		Missing:  NewMissingTypeTracker(),
	}

	p.logger.WithField("report", name).Info("Parsing InspectCode report")

	if err := p.walk(p.newDecoder(r), run); err != nil {
		return nil, domain.NewReportReadError(fmt.Sprintf("unable to parse report %s", name), err)
	}

	if v, ok := p.resolver.MissingTypes(run.Missing, run.Registry); ok {
		p.save(run, v)
	}

	p.logger.WithFields(logrus.Fields{
		"report":     name,
		"issues":     run.Issues,
		"violations": run.Violations,
		"missing":    len(run.Missing.ids),
	}).Debug("Finished parsing report")

	return run, nil
}

func (p *Parser) newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(p.charset.wrap(r))
	dec.CharsetReader = p.charset.charsetReader
	return dec
}

// walk drives the state machine over the token stream
func (p *Parser) walk(dec *xml.Decoder, run *Run) error {
	stack := []state{stateDocument}
	sawRoot := false
	sawDecl := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if !sawRoot {
				return errors.New("report has no root element")
			}
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			current := stack[len(stack)-1]
			if current == stateDocument && sawRoot {
				return errors.New("report has more than one root element")
			}
			if current == stateDocument && !sawDecl {
				p.checkDeclaration("")
				sawDecl = true
			}
			next, descend, err := p.enter(dec, current, t, run)
			if err != nil {
				return err
			}
			if current == stateDocument {
				sawRoot = true
			}
			if descend {
				stack = append(stack, next)
			}
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.ProcInst:
			if t.Target == "xml" && !sawDecl {
				p.checkDeclaration(declaredEncoding(t.Inst))
				sawDecl = true
			}
		}
	}
}

// checkDeclaration warns when a configured non-UTF-8 charset meets a report
// declaring UTF-8 or nothing. The configured charset wins, so such a report
// is decoded twice.
func (p *Parser) checkDeclaration(declared string) {
	if !p.charset.overridesUTF8(declared) {
		return
	}
	if declared == "" {
		declared = "none"
	}
	p.logger.Warnf("Report is decoded as %s although its XML declaration says encoding %s; check the source charset setting", p.charset.name, declared)
}

// enter handles a start element seen in state current. It returns the state
// to push when the parser descends into the element; otherwise the element
// has been consumed.
func (p *Parser) enter(dec *xml.Decoder, current state, el xml.StartElement, run *Run) (state, bool, error) {
	name := el.Name.Local

	switch current {
	case stateDocument:
		return stateRoot, true, nil

	case stateRoot:
		switch name {
		case elemIssues:
			return stateIssues, true, nil
		case elemIssueTypes:
			p.logger.Debug("Parsing IssueTypes")
			return stateIssueTypes, true, nil
		}

	case stateIssues:
		if name == elemProject {
			projectName := attrValue(el.Attr, "Name")
			if projectName == run.Project {
				return stateProject, true, nil
			}
			p.logger.Debugf("Skipping project block due to name mismatch. Currently analyzing '%s', processing '%s'", run.Project, projectName)
			run.SkippedProjects++
		}

	case stateProject:
		if name == elemIssue {
			if err := p.handleIssue(el, run); err != nil {
				return current, false, err
			}
		}

	case stateIssueTypes:
		if name == elemIssueType {
			run.Registry.Add(el.Attr)
		}
	}

	return current, false, dec.Skip()
}

func (p *Parser) handleIssue(el xml.StartElement, run *Run) error {
	line, hasLine := lookupAttr(el.Attr, "Line")
	f := domain.Finding{
		TypeID:      attrValue(el.Attr, "TypeId"),
		File:        attrValue(el.Attr, "File"),
		Line:        line,
		LinePresent: hasLine,
		Message:     attrValue(el.Attr, "Message"),
	}
	run.Issues++

	rule, ok := p.resolver.Lookup(f.TypeID)
	if !ok {
		p.logger.Warnf("Could not find the following rule in the rule repository: %s", catalog.ConfigKey(f.TypeID))
		run.Missing.Record(f.TypeID)
		return nil
	}

	v, keep, err := p.resolver.Attach(rule, f)
	if err != nil {
		return err
	}
	if !keep {
		run.Dropped++
		return nil
	}
	p.save(run, v)
	return nil
}

func (p *Parser) save(run *Run, v domain.Violation) {
	p.sink.Save(v)
	run.Violations++
}
