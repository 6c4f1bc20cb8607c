package compute

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	ilog "mcgate/internal/log"
)

// EC2API is the slice of the EC2 client this package actually calls, kept
// narrow so tests can substitute a mock.
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	StartInstances(ctx context.Context, params *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error)
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
}

var (
	ErrQueryStatus = errors.New("failed to query status of instance")
	ErrParseStatus = errors.New("failed to parse instance information")
	ErrStart       = errors.New("failed to start instance")
	ErrStop        = errors.New("failed to stop instance")
)

type ControllerI struct {
	api        EC2API
	instanceID string
}

func NewControllerI(api EC2API, instanceID string) *ControllerI {
	return &ControllerI{api: api, instanceID: instanceID}
}

func (c *ControllerI) Describe(ctx context.Context) (InstanceStatus, error) {
	logger := ilog.Component("compute")
	out, err := c.api.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{c.instanceID},
	})
	if err != nil {
		logger.Errorf("describe instance %s failed: %v", c.instanceID, err)
		return InstanceStatus{}, ErrQueryStatus
	}

	if len(out.Reservations) == 0 || len(out.Reservations[0].Instances) == 0 {
		logger.Errorf("describe instance %s returned no reservation/instance", c.instanceID)
		return InstanceStatus{}, ErrParseStatus
	}

	inst := out.Reservations[0].Instances[0]
	if inst.State == nil {
		logger.Errorf("describe instance %s returned no state", c.instanceID)
		return InstanceStatus{}, ErrParseStatus
	}

	status := InstanceStatus{
		ID:       aws.ToString(inst.InstanceId),
		State:    string(inst.State.Name),
		PublicIP: aws.ToString(inst.PublicIpAddress),
	}
	logger.Infof("instance %s state=%s ip=%s", status.ID, status.State, status.PublicIP)
	return status, nil
}

func (c *ControllerI) Start(ctx context.Context) error {
	logger := ilog.Component("compute")
	logger.Infof("starting instance %s", c.instanceID)
	if _, err := c.api.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: []string{c.instanceID},
	}); err != nil {
		logger.Errorf("start instance %s failed: %v", c.instanceID, err)
		return ErrStart
	}
	return nil
}

func (c *ControllerI) Stop(ctx context.Context) error {
	logger := ilog.Component("compute")
	logger.Infof("stopping instance %s", c.instanceID)
	if _, err := c.api.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{c.instanceID},
	}); err != nil {
		logger.Errorf("stop instance %s failed: %v", c.instanceID, err)
		return ErrStop
	}
	return nil
}
