package server

import (
	"context"
	"encoding/json"

	mdwerror "github.com/msto63/pratt/foundation/core/error"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// gRPC names of the evaluator service. Requests and responses are
// google.protobuf.Struct values shaped like Request and Response.
const (
	EvaluatorService = "pratt.v1.Evaluator"
	EvaluateMethod   = "/pratt.v1.Evaluator/Evaluate"
)

// EvaluatorServer is the server API of pratt.v1.Evaluator
type EvaluatorServer interface {
	Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var evaluatorServiceDesc = grpc.ServiceDesc{
	ServiceName: EvaluatorService,
	HandlerType: (*EvaluatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Evaluate",
			Handler:    evaluateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pratt/v1/evaluator.proto",
}

func evaluateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EvaluatorServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EvaluateMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EvaluatorServer).Evaluate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterEvaluator registers svc as pratt.v1.Evaluator on s
func RegisterEvaluator(s grpc.ServiceRegistrar, svc *Service) {
	s.RegisterService(&evaluatorServiceDesc, &grpcEvaluator{service: svc})
}

type grpcEvaluator struct {
	service *Service
}

// Evaluate fails with InvalidArgument for malformed requests and for
// expressions that do not parse or evaluate; the latter carry the full
// Response as a status detail
func (g *grpcEvaluator) Evaluate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req Request
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}

	resp, err := g.service.Evaluate(ctx, req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, errorMessage(err))
	}

	out, err := toStruct(resp)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}

	if resp.Error != nil {
		st := status.New(statusCode(resp.Error), resp.Error.Message)
		if detailed, derr := st.WithDetails(out); derr == nil {
			st = detailed
		}
		return nil, st.Err()
	}
	return out, nil
}

func statusCode(info *ErrorInfo) codes.Code {
	if mdwerror.Code(info.Code).IsUserError() {
		return codes.InvalidArgument
	}
	return codes.Internal
}

// EvaluateRemote calls pratt.v1.Evaluator on conn. Expression failures
// come back as a Response with Error set, like Service.Evaluate.
func EvaluateRemote(ctx context.Context, conn grpc.ClientConnInterface, req Request) (*Response, error) {
	in, err := toStruct(req)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := conn.Invoke(ctx, EvaluateMethod, in, out); err != nil {
		for _, detail := range status.Convert(err).Details() {
			if s, ok := detail.(*structpb.Struct); ok {
				var resp Response
				if ferr := fromStruct(s, &resp); ferr == nil {
					return &resp, nil
				}
			}
		}
		return nil, err
	}

	var resp Response
	if err := fromStruct(out, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// toStruct converts v through its JSON form
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func fromStruct(s *structpb.Struct, v interface{}) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
