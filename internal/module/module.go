// Package module loads panel module manifests: it fetches the manifest and
// template through the resource loader, renders the panel markup, and
// registers the declared bindings and config controls with the framework.
package module

import (
	"fmt"

	"github.com/edgexfoundry/go-mod-core-contracts/v4/clients/logger"
	"gopkg.in/yaml.v2"

	"github.com/marekvales/device_panel_go/internal/framework"
	"github.com/marekvales/device_panel_go/internal/resources"
	"github.com/marekvales/device_panel_go/internal/sink"
)

const (
	manifestFile     = "module.yaml"
	defaultContainer = "module-container"
)

// BindingDecl is one binding line from a manifest. Template and Binding may
// carry range notation; expansion happens at registration time.
type BindingDecl struct {
	Class     string `yaml:"class"`
	Template  string `yaml:"template"`
	Binding   string `yaml:"binding"`
	Direction string `yaml:"direction"`
	Event     string `yaml:"event"`
}

// Manifest describes one loadable panel module.
type Manifest struct {
	Name      string                    `yaml:"name"`
	Template  string                    `yaml:"template"`  // template file, module-relative
	Container string                    `yaml:"container"` // selector receiving the markup
	Context   map[string]interface{}    `yaml:"context"`   // render context
	Bindings  []BindingDecl             `yaml:"bindings"`
	Controls  []framework.ConfigControl `yaml:"controls"`
}

// Module is one loaded manifest plus the collaborators needed to unload it.
type Module struct {
	lc       logger.LoggingClient
	fw       *framework.Framework
	snk      sink.Sink
	manifest Manifest
}

// Load reads and applies the named module. Resource failures (missing or
// unreadable manifest/template) are returned as errors; binding-level
// configuration mistakes stay on the framework's event channel and do not
// stop the remaining bindings.
func Load(lc logger.LoggingClient, loader resources.Loader, renderer resources.Renderer,
	fw *framework.Framework, snk sink.Sink, name string) (*Module, error) {

	manifestPath, err := loader.ResolveExternalURI(name + "/" + manifestFile)
	if err != nil {
		return nil, err
	}
	if !loader.Exists(manifestPath) {
		return nil, fmt.Errorf("module %s: no manifest at %s", name, manifestPath)
	}
	text, err := loader.ReadText(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", name, err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal([]byte(text), &manifest); err != nil {
		return nil, fmt.Errorf("module %s: parse manifest: %w", name, err)
	}
	if manifest.Name == "" {
		manifest.Name = name
	}

	m := &Module{lc: lc, fw: fw, snk: snk, manifest: manifest}

	if manifest.Template != "" {
		if err := m.renderTemplate(loader, renderer, name); err != nil {
			return nil, err
		}
	}

	for _, decl := range manifest.Bindings {
		fw.PutConfigBinding(framework.BindingRecord{
			Class:     decl.Class,
			Template:  decl.Template,
			Binding:   decl.Binding,
			Direction: framework.Direction(decl.Direction),
			Event:     decl.Event,
		})
	}
	for _, ctrl := range manifest.Controls {
		fw.AddConfigControl(ctrl)
	}
	fw.EstablishConfigControlBindings()

	fw.Fire(framework.EventModuleLoaded, manifest.Name)
	lc.Infof("module %s loaded with %d bindings", manifest.Name, len(manifest.Bindings))
	return m, nil
}

func (m *Module) renderTemplate(loader resources.Loader, renderer resources.Renderer, name string) error {
	tmplPath, err := loader.ResolveExternalURI(name + "/" + m.manifest.Template)
	if err != nil {
		return err
	}
	tmplText, err := loader.ReadText(tmplPath)
	if err != nil {
		return fmt.Errorf("module %s: %w", name, err)
	}
	markup, err := renderer.Render(tmplText, m.manifest.Context)
	if err != nil {
		return fmt.Errorf("module %s: %w", name, err)
	}
	container := m.manifest.Container
	if container == "" {
		container = defaultContainer
	}
	if err := m.snk.SetHTML(container, markup); err != nil {
		return fmt.Errorf("module %s: pushing markup: %w", name, err)
	}
	m.fw.Fire(framework.EventTemplateLoaded, m.manifest.Name)
	return nil
}

// Name returns the loaded module's name.
func (m *Module) Name() string { return m.manifest.Name }

// Unload removes every binding and control the manifest declared and fires
// unloadModule. Bindings already gone surface as loadError events, same as
// an explicit double delete would.
func (m *Module) Unload() {
	for _, decl := range m.manifest.Bindings {
		m.fw.DeleteConfigBinding(decl.Template)
	}
	m.fw.ReleaseConfigControlBindings()
	m.fw.Fire(framework.EventUnloadModule, m.manifest.Name)
	m.lc.Infof("module %s unloaded", m.manifest.Name)
}
