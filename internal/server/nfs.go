package server

import (
	"context"
	"fmt"
	"net"

	log "github.com/sirupsen/logrus"
	nfs "github.com/willscott/go-nfs"
	nfshelper "github.com/willscott/go-nfs/helpers"

	"ramfs/internal/util"
	"ramfs/internal/vfs"
)

// handleCacheSize is the go-nfs caching handler capacity.
const handleCacheSize = 65536

// NFSServer exports a filesystem over NFSv3.
type NFSServer struct {
	listener net.Listener
	server   *nfs.Server
	cancel   context.CancelFunc
}

// NewNFSServer creates an NFS server for fs. The filesystem is wrapped in a
// Serialized guard here; callers pass the bare core.
func NewNFSServer(fs vfs.FileSystem) *NFSServer {
	if log.IsLevelEnabled(log.TraceLevel) {
		nfs.Log.SetLevel(nfs.TraceLevel)
	} else if log.IsLevelEnabled(log.DebugLevel) {
		nfs.Log.SetLevel(nfs.DebugLevel)
	}

	billyFS := NewBillyAdapter(NewSerialized(fs))
	handler := nfshelper.NewNullAuthHandler(billyFS)
	cacheHelper := nfshelper.NewCachingHandler(handler, handleCacheSize)

	ctx, cancel := context.WithCancel(context.Background())
	return &NFSServer{
		server: &nfs.Server{
			Handler: cacheHelper,
			Context: ctx,
		},
		cancel: cancel,
	}
}

// Listen binds the server to addr, retrying while the port is still held
// by a previous instance.
func (s *NFSServer) Listen(addr string) error {
	listener, err := util.RetryWithResult(context.Background(), func() (net.Listener, error) {
		return net.Listen("tcp", addr)
	}, util.ListenRetryOptions(context.Background())...)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address. Valid after Listen.
func (s *NFSServer) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until Shutdown. Listen must have succeeded.
func (s *NFSServer) Serve() error {
	log.Infof("[NFS] serving on %s", s.listener.Addr())
	return s.server.Serve(s.listener)
}

// Shutdown stops the server.
func (s *NFSServer) Shutdown() {
	if s.listener != nil {
		s.listener.Close()
	}
	if s.cancel != nil {
		s.cancel()
	}
}
