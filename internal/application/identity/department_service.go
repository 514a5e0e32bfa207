package identity

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/hr"
	"github.com/hrm/backend/internal/domain/identity"
	"github.com/hrm/backend/internal/domain/shared"
)

// DepartmentService handles the department hierarchy
type DepartmentService struct {
	deptRepo       identity.DepartmentRepository
	employmentRepo hr.EmploymentRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewDepartmentService creates a new department service
func NewDepartmentService(
	deptRepo identity.DepartmentRepository,
	employmentRepo hr.EmploymentRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *DepartmentService {
	return &DepartmentService{
		deptRepo:       deptRepo,
		employmentRepo: employmentRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Create creates a department, optionally under a parent
func (s *DepartmentService) Create(ctx context.Context, input CreateDepartmentInput) (*DepartmentDTO, error) {
	exists, err := s.deptRepo.ExistsByCode(ctx, input.TenantID, input.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CODE_TAKEN", "A department with this code already exists")
	}

	dept, err := identity.NewDepartment(input.TenantID, input.Code, input.Name)
	if err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := s.deptRepo.FindByID(ctx, input.TenantID, *input.ParentID)
		if err != nil {
			return nil, shared.NewDomainError("PARENT_NOT_FOUND", "Parent department not found")
		}
		if err := dept.SetParent(input.ParentID, parent.Path, parent.Level); err != nil {
			return nil, err
		}
	}
	if input.Description != "" {
		dept.SetDescription(input.Description)
	}
	if input.ManagerID != nil {
		dept.SetManager(input.ManagerID)
	}
	if input.SortOrder != 0 {
		dept.SetSortOrder(input.SortOrder)
	}

	if err := s.deptRepo.Save(ctx, dept); err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, dept.GetDomainEvents())
	dept.ClearDomainEvents()

	s.logger.Info("Department created",
		zap.String("department_id", dept.ID.String()),
		zap.String("code", dept.Code))

	dto := ToDepartmentDTO(dept)
	return &dto, nil
}

// Get retrieves a department by ID
func (s *DepartmentService) Get(ctx context.Context, tenantID, id uuid.UUID) (*DepartmentDTO, error) {
	dept, err := s.deptRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	dto := ToDepartmentDTO(dept)
	return &dto, nil
}

// List returns a page of departments
func (s *DepartmentService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[DepartmentDTO], error) {
	depts, total, err := s.deptRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]DepartmentDTO, len(depts))
	for i := range depts {
		dtos[i] = ToDepartmentDTO(&depts[i])
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update changes a department's details
func (s *DepartmentService) Update(ctx context.Context, input UpdateDepartmentInput) (*DepartmentDTO, error) {
	dept, err := s.deptRepo.FindByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := dept.SetName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		dept.SetDescription(*input.Description)
	}
	if input.ClearMgr {
		dept.SetManager(nil)
	} else if input.ManagerID != nil {
		dept.SetManager(input.ManagerID)
	}
	if input.SortOrder != nil {
		dept.SetSortOrder(*input.SortOrder)
	}

	if err := s.deptRepo.Save(ctx, dept); err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, dept.GetDomainEvents())
	dept.ClearDomainEvents()

	dto := ToDepartmentDTO(dept)
	return &dto, nil
}

// Move re-parents a department. Paths and levels of the whole subtree are
// rewritten to match the new position.
func (s *DepartmentService) Move(ctx context.Context, tenantID, id uuid.UUID, newParentID *uuid.UUID) (*DepartmentDTO, error) {
	dept, err := s.deptRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	oldPath := dept.Path
	oldLevel := dept.Level

	var parentPath string
	var parentLevel int
	if newParentID != nil {
		parent, err := s.deptRepo.FindByID(ctx, tenantID, *newParentID)
		if err != nil {
			return nil, shared.NewDomainError("PARENT_NOT_FOUND", "Parent department not found")
		}
		parentPath = parent.Path
		parentLevel = parent.Level
	}

	if err := dept.SetParent(newParentID, parentPath, parentLevel); err != nil {
		return nil, err
	}

	descendants, err := s.deptRepo.FindSubtree(ctx, tenantID, oldPath)
	if err != nil {
		return nil, err
	}

	levelDelta := dept.Level - oldLevel
	for i := range descendants {
		desc := &descendants[i]
		if desc.ID == dept.ID {
			continue
		}
		desc.Path = dept.Path + strings.TrimPrefix(desc.Path, oldPath)
		desc.Level += levelDelta
		if err := s.deptRepo.Save(ctx, desc); err != nil {
			return nil, err
		}
	}

	if err := s.deptRepo.Save(ctx, dept); err != nil {
		return nil, err
	}

	s.logger.Info("Department moved",
		zap.String("department_id", id.String()),
		zap.String("new_path", dept.Path))

	dto := ToDepartmentDTO(dept)
	return &dto, nil
}

// Delete removes an empty leaf department
func (s *DepartmentService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	children, err := s.deptRepo.FindChildren(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return shared.NewDomainError("HAS_CHILDREN", "Department has child departments")
	}

	count, err := s.employmentRepo.CountByDepartment(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("HAS_EMPLOYEES", "Department still has employees assigned")
	}

	if err := s.deptRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.logger.Info("Department deleted", zap.String("department_id", id.String()))

	return nil
}

// Tree returns the full department hierarchy as nested nodes, roots
// ordered by sort order then code
func (s *DepartmentService) Tree(ctx context.Context, tenantID uuid.UUID) ([]*DepartmentTreeNode, error) {
	roots, err := s.deptRepo.FindRoots(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	tree := make([]*DepartmentTreeNode, 0, len(roots))
	for i := range roots {
		subtree, err := s.deptRepo.FindSubtree(ctx, tenantID, roots[i].Path)
		if err != nil {
			return nil, err
		}
		tree = append(tree, buildTree(&roots[i], subtree))
	}

	return tree, nil
}

// buildTree assembles nested nodes from a path-ordered subtree slice
func buildTree(root *identity.Department, subtree []identity.Department) *DepartmentTreeNode {
	nodes := make(map[uuid.UUID]*DepartmentTreeNode, len(subtree))
	rootNode := &DepartmentTreeNode{DepartmentDTO: ToDepartmentDTO(root), Children: make([]*DepartmentTreeNode, 0)}
	nodes[root.ID] = rootNode

	for i := range subtree {
		dept := &subtree[i]
		if dept.ID == root.ID {
			continue
		}
		nodes[dept.ID] = &DepartmentTreeNode{DepartmentDTO: ToDepartmentDTO(dept), Children: make([]*DepartmentTreeNode, 0)}
	}

	for i := range subtree {
		dept := &subtree[i]
		if dept.ID == root.ID || dept.ParentID == nil {
			continue
		}
		if parent, ok := nodes[*dept.ParentID]; ok {
			parent.Children = append(parent.Children, nodes[dept.ID])
		}
	}

	for _, node := range nodes {
		children := node.Children
		sort.SliceStable(children, func(a, b int) bool {
			if children[a].SortOrder != children[b].SortOrder {
				return children[a].SortOrder < children[b].SortOrder
			}
			return children[a].Code < children[b].Code
		})
	}

	return rootNode
}
