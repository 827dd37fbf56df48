package app

import (
	"context"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"si-components/internal/adapters"
	"si-components/internal/ports"
)

// HeadChangeSet selects the workspace's HEAD change set.
const HeadChangeSet = "HEAD"

type Service struct {
	Configs    ports.ConfigSourcePort
	Artifacts  ports.ArtifactPort
	NewSession func(Connection) ports.SessionPort
	Clock      func() time.Time
}

func NewService() Service {
	return Service{
		Configs:   adapters.NewConfigDirAdapter(),
		Artifacts: adapters.NewArtifactFileAdapter(),
		NewSession: func(conn Connection) ports.SessionPort {
			return adapters.NewSIClientAdapter(conn)
		},
		Clock: time.Now,
	}
}

func (s Service) session(conn Connection) (ports.SessionPort, error) {
	if strings.TrimSpace(conn.WorkspaceID) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace id is required (set SI_WORKSPACE_ID)")
	}
	return s.NewSession(conn), nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// resolveChangeSet maps an empty ref or "HEAD" to the id of the head change
// set. Any other ref is used as an id.
func resolveChangeSet(ctx context.Context, session ports.SessionPort, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref != "" && !strings.EqualFold(ref, HeadChangeSet) {
		return ref, nil
	}
	changeSets, err := session.ListChangeSets(ctx)
	if err != nil {
		return "", err
	}
	for _, cs := range changeSets {
		if cs.IsHead || strings.EqualFold(cs.Name, HeadChangeSet) {
			log.Debug().Str("change_set", cs.ID).Msg("resolved HEAD change set")
			return cs.ID, nil
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("workspace has no HEAD change set")
}
