// Package grpcapi exposes the registry lookups over gRPC.  Messages are
// google.protobuf.Struct values with the same shape as the HTTP JSON
// bodies, so no generated code is needed.
package grpcapi

import (
	"context"
	"errors"
	"math"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/service"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/types"
)

const ServiceName = "cornerstone.v1.BuildingRegistry"

// registryServer is the handler type recorded in the service descriptor.
type registryServer interface {
	GetBuilding(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBuildingOwnership(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHistoricalDesignation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBuildingFeature(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBuildingModification(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRegistrar(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegistryServer answers lookups from a service.Registry.
type RegistryServer struct {
	registry *service.Registry
}

func NewRegistryServer(r *service.Registry) *RegistryServer {
	return &RegistryServer{registry: r}
}

func unaryHandler(method string, call func(registryServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(registryServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(registryServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*registryServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("GetBuilding", registryServer.GetBuilding),
		unaryHandler("GetBuildingOwnership", registryServer.GetBuildingOwnership),
		unaryHandler("GetHistoricalDesignation", registryServer.GetHistoricalDesignation),
		unaryHandler("GetBuildingFeature", registryServer.GetBuildingFeature),
		unaryHandler("GetBuildingModification", registryServer.GetBuildingModification),
		unaryHandler("GetRegistrar", registryServer.GetRegistrar),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cornerstone/v1/registry.proto",
}

// Register attaches the registry service to s.
func Register(s grpc.ServiceRegistrar, rs *RegistryServer) {
	s.RegisterService(&serviceDesc, rs)
}

func stringField(in *structpb.Struct, name string) string {
	return in.GetFields()[name].GetStringValue()
}

func lookupResult[R any, V any](rec *R, err error, view func(R) V) (*structpb.Struct, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	resp := types.NotFound()
	if rec != nil {
		resp = types.Found(view(*rec))
	}
	out, err := types.AsStruct(resp)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	return out, nil
}

func toStatus(err error) error {
	if f, ok := service.AsFailure(err); ok {
		switch f.Kind {
		case service.KindInvalidArgument:
			return status.Error(codes.InvalidArgument, err.Error())
		case service.KindNotFound:
			return status.Error(codes.NotFound, err.Error())
		case service.KindAlreadyExists:
			return status.Error(codes.AlreadyExists, err.Error())
		case service.KindUnauthorized:
			return status.Error(codes.PermissionDenied, err.Error())
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.Internal, "internal error")
}

func (s *RegistryServer) GetBuilding(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	rec, err := s.registry.GetBuilding(ctx, stringField(in, "building_id"))
	return lookupResult(rec, err, types.BuildingFrom)
}

func (s *RegistryServer) GetBuildingOwnership(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	rec, err := s.registry.GetBuildingOwnership(ctx, stringField(in, "building_id"))
	return lookupResult(rec, err, types.OwnershipFrom)
}

func (s *RegistryServer) GetHistoricalDesignation(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	rec, err := s.registry.GetHistoricalDesignation(ctx, stringField(in, "building_id"), stringField(in, "designation_id"))
	return lookupResult(rec, err, types.DesignationFrom)
}

func (s *RegistryServer) GetBuildingFeature(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	rec, err := s.registry.GetBuildingFeature(ctx, stringField(in, "building_id"), stringField(in, "feature_id"))
	return lookupResult(rec, err, types.FeatureFrom)
}

// GetBuildingModification takes modification_id as a number.
func (s *RegistryServer) GetBuildingModification(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	n := in.GetFields()["modification_id"].GetNumberValue()
	if n < 0 || n != math.Trunc(n) || n > 1<<53 {
		return nil, status.Error(codes.InvalidArgument, "modification_id must be a non-negative integer")
	}
	rec, err := s.registry.GetBuildingModification(ctx, stringField(in, "building_id"), uint64(n))
	return lookupResult(rec, err, types.ModificationFrom)
}

func (s *RegistryServer) GetRegistrar(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	rec, err := s.registry.GetRegistrar(ctx, stringField(in, "registrar_id"))
	return lookupResult(rec, err, types.RegistrarFrom)
}
