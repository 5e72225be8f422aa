package remote

import (
	"github.com/shopspring/decimal"

	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

// ── Formato del backend (nombres de campo en portugués) ───────────────────────

type empresaDto struct {
	IDEmpresa int64  `json:"idEmpresa"`
	Nome      string `json:"nome"`
	CNPJ      string `json:"cnpj"`
}

type vendedorDto struct {
	IDVendedor int64        `json:"idVendedor"`
	Codigo     string       `json:"codigo"`
	Nome       string       `json:"nome"`
	Email      string       `json:"email"`
	CPFCNPJ    string       `json:"cpfCnpj"`
	Empresas   []empresaDto `json:"empresas"`
}

type loginDto struct {
	Error    bool         `json:"error"`
	Mensagem string       `json:"mensagem"`
	Vendedor *vendedorDto `json:"vendedor"`
}

type formaPagamentoDto struct {
	IDFormPgto int64           `json:"idFormPgto"`
	Codigo     string          `json:"codigo"`
	Descricao  string          `json:"descricao"`
	PercDesc   decimal.Decimal `json:"percDesc"`
	Ativo      bool            `json:"ativo"`
}

type cidadeDto struct {
	IDCidade int64  `json:"idCidade"`
	Codigo   string `json:"codigo"`
	Nome     string `json:"nome"`
	UF       string `json:"uf"`
}

type produtoDto struct {
	IDProduto    int64           `json:"idProduto"`
	Codigo       string          `json:"codigo"`
	Descricao    string          `json:"descricao"`
	CodigoBarras string          `json:"codigoBarras"`
	Unidade      string          `json:"unidade"`
	Grupo        string          `json:"grupo"`
	PrecoVenda   decimal.Decimal `json:"precoVenda"`
}

type itemTabelaDto struct {
	IDItensTabela int64           `json:"idItensTabela"`
	PrecoVenda    decimal.Decimal `json:"precoVenda"`
	Produto       produtoDto      `json:"produto"`
}

type tabelaDto struct {
	IDTabela  int64           `json:"idTabela"`
	Codigo    string          `json:"codigo"`
	Descricao string          `json:"descricao"`
	Itens     []itemTabelaDto `json:"itens"`
}

type clienteDto struct {
	IDCliente       int64      `json:"idCliente,omitempty"`
	Codigo          string     `json:"codigo"`
	Nome            string     `json:"nome"`
	Tipo            int        `json:"tipo"`
	CPFCNPJ         string     `json:"cpfCnpj"`
	Contato         string     `json:"contato"`
	Email           string     `json:"email"`
	Telefone        string     `json:"telefone"`
	Telefone2       string     `json:"telefone2"`
	Endereco        string     `json:"endereco"`
	CEP             string     `json:"cep"`
	Cidade          *cidadeDto `json:"cidade,omitempty"`
	Bairro          string     `json:"bairro"`
	Numero          string     `json:"numero"`
	Complemento     string     `json:"complemento"`
	UltimaAlteracao string     `json:"ultimaAlteracao"`
	Ativo           bool       `json:"ativo"`
	CNPJEmpresa     string     `json:"cnpjEmpresa"`
	CPFCNPJVendedor string     `json:"cpfCnpjVendedor"`
}

type cepDto struct {
	CEP        string     `json:"cep"`
	Logradouro string     `json:"logradouro"`
	Bairro     string     `json:"bairro"`
	Cidade     *cidadeDto `json:"cidade"`
}

// ── Conversión a entidades ────────────────────────────────────────────────────
// Todo lo que llega del backend entra como imported.

func (d *vendedorDto) toEntity() *entity.Salesman {
	s := &entity.Salesman{
		Meta:       entity.Meta{Status: entity.StatusImported},
		SalesmanID: d.IDVendedor,
		Code:       d.Codigo,
		Name:       d.Nome,
		Email:      d.Email,
		CPFCNPJ:    d.CPFCNPJ,
	}
	for _, e := range d.Empresas {
		s.Companies = append(s.Companies, entity.Company{CompanyID: e.IDEmpresa, Name: e.Nome, CNPJ: e.CNPJ})
	}
	return s
}

func (d formaPagamentoDto) toEntity() *entity.PaymentMethod {
	return &entity.PaymentMethod{
		Meta:            entity.Meta{Status: entity.StatusImported},
		PaymentMethodID: d.IDFormPgto,
		Code:            d.Codigo,
		Description:     d.Descricao,
		Discount:        d.PercDesc,
		Active:          d.Ativo,
	}
}

func (d *cidadeDto) toEntity() *entity.City {
	if d == nil {
		return nil
	}
	return &entity.City{
		Meta:   entity.Meta{Status: entity.StatusImported},
		CityID: d.IDCidade,
		Code:   d.Codigo,
		Name:   d.Nome,
		UF:     d.UF,
	}
}

func cidadeFromEntity(c *entity.City) *cidadeDto {
	if c == nil {
		return nil
	}
	return &cidadeDto{IDCidade: c.CityID, Codigo: c.Code, Nome: c.Name, UF: c.UF}
}

func (d tabelaDto) toEntity() *entity.PriceTable {
	t := &entity.PriceTable{
		Meta:         entity.Meta{Status: entity.StatusImported},
		PriceTableID: d.IDTabela,
		Code:         d.Codigo,
		Description:  d.Descricao,
	}
	for _, it := range d.Itens {
		t.Items = append(t.Items, entity.PriceTableItem{
			ItemID:    it.IDItensTabela,
			SalePrice: it.PrecoVenda,
			Product: entity.Product{
				ProductID:   it.Produto.IDProduto,
				Code:        it.Produto.Codigo,
				Description: it.Produto.Descricao,
				BarCode:     it.Produto.CodigoBarras,
				Unit:        it.Produto.Unidade,
				Group:       it.Produto.Grupo,
				Price:       it.Produto.PrecoVenda,
			},
		})
	}
	return t
}

func (d clienteDto) toEntity() *entity.Customer {
	return &entity.Customer{
		Meta:            entity.Meta{Status: entity.StatusImported},
		CustomerID:      d.IDCliente,
		Code:            d.Codigo,
		Name:            d.Nome,
		Type:            d.Tipo,
		CPFCNPJ:         d.CPFCNPJ,
		Contact:         d.Contato,
		Email:           d.Email,
		Phone:           d.Telefone,
		Phone2:          d.Telefone2,
		Address:         d.Endereco,
		PostalCode:      d.CEP,
		City:            d.Cidade.toEntity(),
		District:        d.Bairro,
		Number:          d.Numero,
		Complement:      d.Complemento,
		LastChange:      d.UltimaAlteracao,
		Active:          d.Ativo,
		CompanyCNPJ:     d.CNPJEmpresa,
		SalesmanCPFCNPJ: d.CPFCNPJVendedor,
	}
}

func clienteFromEntity(c *entity.Customer) clienteDto {
	return clienteDto{
		IDCliente:       c.CustomerID,
		Codigo:          c.Code,
		Nome:            c.Name,
		Tipo:            c.Type,
		CPFCNPJ:         c.CPFCNPJ,
		Contato:         c.Contact,
		Email:           c.Email,
		Telefone:        c.Phone,
		Telefone2:       c.Phone2,
		Endereco:        c.Address,
		CEP:             c.PostalCode,
		Cidade:          cidadeFromEntity(c.City),
		Bairro:          c.District,
		Numero:          c.Number,
		Complemento:     c.Complement,
		UltimaAlteracao: c.LastChange,
		Ativo:           c.Active,
		CNPJEmpresa:     c.CompanyCNPJ,
		CPFCNPJVendedor: c.SalesmanCPFCNPJ,
	}
}

func (d cepDto) toEntity() *entity.PostalCode {
	return &entity.PostalCode{
		Meta:     entity.Meta{Status: entity.StatusImported},
		CEP:      d.CEP,
		Street:   d.Logradouro,
		District: d.Bairro,
		City:     d.Cidade.toEntity(),
	}
}
