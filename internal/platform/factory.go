package platform

import (
	"github.com/aretw0/folio/pkg/core"
)

// New builds a ready-to-use service for the site at uri:
//
//	svc, err := folio.New("./docs", folio.WithVersioning(false))
//
// The URI argument is adapter-specific (a directory path for "fs").
func New(uri string, opts ...Option) (*core.Service, error) {
	repo, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	o := parseOptions(opts)

	var serviceOpts []core.ServiceOption
	if size, ok := o.config["event_buffer"].(int); ok && size > 0 {
		serviceOpts = append(serviceOpts, core.WithEventBuffer(size))
	}

	return core.NewService(repo, serviceOpts...), nil
}
