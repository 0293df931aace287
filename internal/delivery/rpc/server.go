package rpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"llm_move/internal/domain/game"
	apperrors "llm_move/internal/errors"
)

const (
	serviceName       = "llmmove.MoveService"
	suggestMoveMethod = "/" + serviceName + "/SuggestMove"

	// FailureKindKey is the trailer carrying the failure kind of a failed call.
	FailureKindKey = "failure-kind"
)

type MoveServiceServer interface {
	SuggestMove(ctx context.Context, req *game.SuggestRequest) (*game.SuggestResponse, error)
}

type Suggester interface {
	SuggestMove(ctx context.Context, req game.SuggestRequest) (*game.SuggestResponse, error)
}

// MoveServer exposes the suggestion usecase over gRPC.
type MoveServer struct {
	uc  Suggester
	log *zap.SugaredLogger
}

func NewMoveServer(uc Suggester, log *zap.SugaredLogger) *MoveServer {
	return &MoveServer{uc: uc, log: log}
}

func (m *MoveServer) SuggestMove(ctx context.Context, req *game.SuggestRequest) (*game.SuggestResponse, error) {
	resp, err := m.uc.SuggestMove(ctx, *req)
	if err != nil {
		kind := apperrors.KindOf(err)
		_ = grpc.SetTrailer(ctx, metadata.Pairs(FailureKindKey, string(kind)))
		return nil, status.Error(codeFor(kind), err.Error())
	}
	return resp, nil
}

func codeFor(kind apperrors.Kind) codes.Code {
	switch kind {
	case apperrors.KindInvalidInput:
		return codes.InvalidArgument
	case apperrors.KindContentPolicy, apperrors.KindTransport:
		return codes.Unavailable
	}
	return codes.Internal
}

var MoveServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*MoveServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SuggestMove",
			Handler:    suggestMoveHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "llmmove/move",
}

func RegisterMoveServiceServer(s grpc.ServiceRegistrar, srv MoveServiceServer) {
	s.RegisterService(&MoveServiceDesc, srv)
}

func suggestMoveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(game.SuggestRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MoveServiceServer).SuggestMove(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: suggestMoveMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MoveServiceServer).SuggestMove(ctx, req.(*game.SuggestRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// LoggingInterceptor logs every unary call with its duration and status code.
func LoggingInterceptor(log *zap.SugaredLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Infow("grpc call",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

// MoveClient calls MoveService with the JSON codec.
type MoveClient struct {
	cc grpc.ClientConnInterface
}

func NewMoveClient(cc grpc.ClientConnInterface) *MoveClient {
	return &MoveClient{cc: cc}
}

func (c *MoveClient) SuggestMove(ctx context.Context, req *game.SuggestRequest, opts ...grpc.CallOption) (*game.SuggestResponse, error) {
	out := new(game.SuggestResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, suggestMoveMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
